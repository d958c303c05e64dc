package pluralforms

import "fmt"

// Expression is a plural forms expression. Eval evaluates the expression for
// a given n value and returns the index of the plural form to use. Use
// pluralforms.Compile to generate Expression instances.
type Expression interface {
	Eval(n uint32) int
	String() string
}

func logic(b bool) int {
	if b {
		return 1
	}
	return 0
}

type notExpr struct {
	sub Expression
}

func (e notExpr) Eval(n uint32) int {
	return logic(e.sub.Eval(n) == 0)
}

func (e notExpr) String() string {
	return fmt.Sprintf("!%s", e.sub)
}

type binaryExpr struct {
	left  Expression
	right Expression
}

func (e binaryExpr) format(op string) string {
	return fmt.Sprintf("(%s %s %s)", e.left, op, e.right)
}

type orExpr binaryExpr

func (e orExpr) Eval(n uint32) int {
	return logic(e.left.Eval(n) != 0 || e.right.Eval(n) != 0)
}

func (e orExpr) String() string { return binaryExpr(e).format("||") }

type andExpr binaryExpr

func (e andExpr) Eval(n uint32) int {
	return logic(e.left.Eval(n) != 0 && e.right.Eval(n) != 0)
}

func (e andExpr) String() string { return binaryExpr(e).format("&&") }

type eqExpr binaryExpr

func (e eqExpr) Eval(n uint32) int {
	return logic(e.left.Eval(n) == e.right.Eval(n))
}

func (e eqExpr) String() string { return binaryExpr(e).format("==") }

type neExpr binaryExpr

func (e neExpr) Eval(n uint32) int {
	return logic(e.left.Eval(n) != e.right.Eval(n))
}

func (e neExpr) String() string { return binaryExpr(e).format("!=") }

type ltExpr binaryExpr

func (e ltExpr) Eval(n uint32) int {
	return logic(e.left.Eval(n) < e.right.Eval(n))
}

func (e ltExpr) String() string { return binaryExpr(e).format("<") }

type lteExpr binaryExpr

func (e lteExpr) Eval(n uint32) int {
	return logic(e.left.Eval(n) <= e.right.Eval(n))
}

func (e lteExpr) String() string { return binaryExpr(e).format("<=") }

type gtExpr binaryExpr

func (e gtExpr) Eval(n uint32) int {
	return logic(e.left.Eval(n) > e.right.Eval(n))
}

func (e gtExpr) String() string { return binaryExpr(e).format(">") }

type gteExpr binaryExpr

func (e gteExpr) Eval(n uint32) int {
	return logic(e.left.Eval(n) >= e.right.Eval(n))
}

func (e gteExpr) String() string { return binaryExpr(e).format(">=") }

type addExpr binaryExpr

func (e addExpr) Eval(n uint32) int {
	return e.left.Eval(n) + e.right.Eval(n)
}

func (e addExpr) String() string { return binaryExpr(e).format("+") }

type subExpr binaryExpr

func (e subExpr) Eval(n uint32) int {
	return e.left.Eval(n) - e.right.Eval(n)
}

func (e subExpr) String() string { return binaryExpr(e).format("-") }

type mulExpr binaryExpr

func (e mulExpr) Eval(n uint32) int {
	return e.left.Eval(n) * e.right.Eval(n)
}

func (e mulExpr) String() string { return binaryExpr(e).format("*") }

// Division and modulo by zero evaluate to 0.
type divExpr binaryExpr

func (e divExpr) Eval(n uint32) int {
	d := e.right.Eval(n)
	if d == 0 {
		return 0
	}
	return e.left.Eval(n) / d
}

func (e divExpr) String() string { return binaryExpr(e).format("/") }

type modExpr binaryExpr

func (e modExpr) Eval(n uint32) int {
	d := e.right.Eval(n)
	if d == 0 {
		return 0
	}
	return e.left.Eval(n) % d
}

func (e modExpr) String() string { return binaryExpr(e).format("%") }

type ternaryExpr struct {
	test    Expression
	ifTrue  Expression
	ifFalse Expression
}

func (e ternaryExpr) Eval(n uint32) int {
	if e.test.Eval(n) != 0 {
		return e.ifTrue.Eval(n)
	}
	return e.ifFalse.Eval(n)
}

func (e ternaryExpr) String() string {
	return fmt.Sprintf("(%s ? %s : %s)", e.test, e.ifTrue, e.ifFalse)
}

type numberExpr struct {
	value int
}

func (e numberExpr) Eval(n uint32) int {
	return e.value
}

func (e numberExpr) String() string {
	return fmt.Sprint(e.value)
}

type varExpr struct{}

func (e varExpr) Eval(n uint32) int {
	return int(n)
}

func (e varExpr) String() string {
	return "n"
}
