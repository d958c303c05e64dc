// Package lupdate extracts translatable strings from Go source files and
// merges them into existing TS catalogs.
package lupdate

import (
	"errors"
	"go/ast"
	"go/parser"
	"go/token"
	"io"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"strings"

	"github.com/snapcore/go-linguist"
)

var (
	ErrNotString  = errors.New("not a string constant")
	ErrBadKeyword = errors.New("bad keyword")
	ErrOutOfRange = errors.New("argument index out of range")
)

// stringConstant evaluates a string literal, possibly parenthesised or
// concatenated from other literals.
func stringConstant(expr ast.Expr) (string, error) {
	switch val := expr.(type) {
	case *ast.BasicLit:
		if val.Kind != token.STRING {
			return "", ErrNotString
		}
		return strconv.Unquote(val.Value)
	case *ast.BinaryExpr:
		if val.Op != token.ADD {
			return "", ErrNotString
		}
		left, err := stringConstant(val.X)
		if err != nil {
			return "", err
		}
		right, err := stringConstant(val.Y)
		if err != nil {
			return "", err
		}
		return left + right, nil
	case *ast.ParenExpr:
		return stringConstant(val.X)
	}
	return "", ErrNotString
}

// Keyword describes a translation function and which of its arguments
// carry the context, source text, disambiguation comment and count.
// Indexes are zero based; -1 means the function has no such argument.
type Keyword struct {
	name, pkg                     string
	source, comment, context, num int
}

// ParseKeyword parses a keyword spec of the form [PKG.]FUNC[:ARG,...].
// ARG is a one based argument position: the first plain position is the
// source text and the second the comment, a position suffixed with "c" is
// the context and one suffixed with "n" the count of a numerus message.
func ParseKeyword(spec string) (*Keyword, error) {
	function, args, hasArgs := strings.Cut(spec, ":")

	var pkg string
	if before, after, ok := strings.Cut(function, "."); ok {
		pkg, function = before, after
		if strings.IndexByte(function, '.') >= 0 {
			return nil, ErrBadKeyword
		}
	}
	if function == "" {
		return nil, ErrBadKeyword
	}

	k := &Keyword{
		name:    function,
		pkg:     pkg,
		source:  0,
		comment: -1,
		context: -1,
		num:     -1,
	}
	if !hasArgs {
		return k, nil
	}

	processed := 0
	for _, arg := range strings.Split(args, ",") {
		if arg == "" {
			return nil, ErrBadKeyword
		}
		target := (*int)(nil)
		switch arg[len(arg)-1] {
		case 'c':
			target, arg = &k.context, arg[:len(arg)-1]
		case 'n':
			target, arg = &k.num, arg[:len(arg)-1]
		}
		val, err := strconv.Atoi(arg)
		if err != nil {
			return nil, err
		}
		if val < 1 {
			return nil, ErrBadKeyword
		}
		if target != nil {
			*target = val - 1
			continue
		}
		switch processed {
		case 0:
			k.source = val - 1
		case 1:
			k.comment = val - 1
		default:
			return nil, ErrBadKeyword
		}
		processed++
	}
	return k, nil
}

// Match reports whether call invokes the keyword's function.
func (k *Keyword) Match(call *ast.CallExpr) bool {
	var pkg, name string

	switch e := call.Fun.(type) {
	case *ast.Ident:
		name = e.Name
	case *ast.SelectorExpr:
		name = e.Sel.Name
		if ident, ok := e.X.(*ast.Ident); ok {
			pkg = ident.Name
		}
	default:
		return false
	}

	if name != k.name {
		return false
	}
	return k.pkg == "" || k.pkg == pkg
}

func (k *Keyword) arg(call *ast.CallExpr, idx int) (string, error) {
	if idx < 0 {
		return "", nil
	}
	if idx >= len(call.Args) {
		return "", ErrOutOfRange
	}
	return stringConstant(call.Args[idx])
}

// Extract returns the message a matching call refers to. Every string
// argument must be a constant.
func (k *Keyword) Extract(call *ast.CallExpr) (msg Message, err error) {
	if msg.Source, err = k.arg(call, k.source); err != nil {
		return Message{}, err
	}
	if msg.Comment, err = k.arg(call, k.comment); err != nil {
		return Message{}, err
	}
	if msg.Context, err = k.arg(call, k.context); err != nil {
		return Message{}, err
	}
	if k.num >= 0 {
		if k.num >= len(call.Args) {
			return Message{}, ErrOutOfRange
		}
		msg.Numerus = true
	}
	return msg, nil
}

// Message identifies an extracted string. Context is empty when the
// keyword has no context argument.
type Message struct {
	Context string
	Source  string
	Comment string
	Numerus bool
}

type entry struct {
	msg           Message
	locations     []linguist.Location
	extraComments []string
}

type visitor struct {
	*Extractor

	fset *token.FileSet
	file *ast.File
}

// extraComment returns the text of "//:" and "/*:" comments, which are
// meant for the translator.
func extraComment(cg *ast.CommentGroup) string {
	var lines []string
	for _, comment := range cg.List {
		var text string
		switch {
		case strings.HasPrefix(comment.Text, "//:"):
			text = comment.Text[3:]
		case strings.HasPrefix(comment.Text, "/*:"):
			text = strings.TrimSuffix(comment.Text[3:], "*/")
		default:
			continue
		}
		for _, line := range strings.Split(text, "\n") {
			if line = strings.TrimSpace(line); line != "" {
				lines = append(lines, line)
			}
		}
	}
	return strings.Join(lines, " ")
}

func (v *visitor) findCommentsBefore(pos token.Position) string {
	for i := len(v.file.Comments) - 1; i >= 0; i-- {
		cg := v.file.Comments[i]
		if v.fset.Position(cg.End()).Line+1 == pos.Line {
			return extraComment(cg)
		}
	}
	return ""
}

func (v *visitor) Visit(node ast.Node) ast.Visitor {
	call, ok := node.(*ast.CallExpr)
	if !ok {
		return v
	}

	for _, k := range v.Keywords {
		if !k.Match(call) {
			continue
		}

		msg, err := k.Extract(call)
		if err != nil {
			break
		}
		if k.context < 0 {
			msg.Context = v.Context
			if msg.Context == "" {
				msg.Context = v.file.Name.Name
			}
		}

		pos := v.fset.Position(node.Pos())
		v.add(msg, v.relative(pos.Filename), pos.Line, v.findCommentsBefore(pos))
		break
	}
	return v
}

// Extractor collects the translatable strings of Go source files.
type Extractor struct {
	Keywords []*Keyword
	// Context names the messages of keywords without a context argument.
	// When empty, the package name of the source file is used.
	Context     string
	Directories []string
	// Root, when set, makes recorded file names relative to it.
	Root       string
	SortOutput bool
	NoLocation bool

	entries map[Message]*entry
	order   []*entry
}

// AddDefaultKeywords registers the lookup methods of the linguist package.
func (e *Extractor) AddDefaultKeywords() {
	for _, spec := range []string{
		"Translate:1c,2,3",
		"TranslateN:1c,2,3,4n",
		"Tr:1c,2",
	} {
		kw, err := ParseKeyword(spec)
		if err != nil {
			panic(err)
		}
		e.Keywords = append(e.Keywords, kw)
	}
}

func (e *Extractor) relative(filename string) string {
	if e.Root == "" {
		return filename
	}
	if rel, err := filepath.Rel(e.Root, filename); err == nil {
		return filepath.ToSlash(rel)
	}
	return filename
}

func (e *Extractor) add(msg Message, file string, line int, comment string) {
	if e.entries == nil {
		e.entries = make(map[Message]*entry)
	}
	ent, ok := e.entries[msg]
	if !ok {
		ent = &entry{msg: msg}
		e.entries[msg] = ent
		e.order = append(e.order, ent)
	}
	if !e.NoLocation {
		ent.locations = append(ent.locations, linguist.Location{File: file, Line: line})
	}
	if comment != "" {
		ent.extraComments = append(ent.extraComments, comment)
	}
}

func (e *Extractor) openFile(filename string) (f *os.File, err error) {
	if len(e.Directories) == 0 || filepath.IsAbs(filename) {
		return os.Open(filename)
	}
	for _, dir := range e.Directories {
		f, err = os.Open(filepath.Join(dir, filename))
		if !os.IsNotExist(err) {
			break
		}
	}
	return f, err
}

func (e *Extractor) parseStream(filename string, r io.Reader) (err error) {
	var v visitor
	v.Extractor = e
	v.fset = token.NewFileSet()
	v.file, err = parser.ParseFile(v.fset, filename, r, parser.ParseComments)
	if err != nil {
		return err
	}
	ast.Walk(&v, v.file)
	return nil
}

// ParseFile extracts the messages of a Go source file.
func (e *Extractor) ParseFile(filename string) error {
	f, err := e.openFile(filename)
	if err != nil {
		return err
	}
	defer f.Close()
	return e.parseStream(filename, f)
}

// Messages returns the extracted messages in the order they were found,
// or sorted by context, source and comment if SortOutput is set.
func (e *Extractor) Messages() []Message {
	entries := e.sorted()
	msgs := make([]Message, len(entries))
	for i, ent := range entries {
		msgs[i] = ent.msg
	}
	return msgs
}

func (e *Extractor) sorted() []*entry {
	entries := append([]*entry(nil), e.order...)
	if e.SortOutput {
		sort.SliceStable(entries, func(i, j int) bool {
			a, b := entries[i].msg, entries[j].msg
			if a.Context != b.Context {
				return a.Context < b.Context
			}
			if a.Source != b.Source {
				return a.Source < b.Source
			}
			return a.Comment < b.Comment
		})
		for _, ent := range entries {
			sort.SliceStable(ent.locations, func(i, j int) bool {
				li, lj := ent.locations[i], ent.locations[j]
				return li.File < lj.File || li.File == lj.File && li.Line < lj.Line
			})
		}
	}
	return entries
}

// Catalog returns the extracted messages as an untranslated catalog for
// language.
func (e *Extractor) Catalog(language string) *linguist.Catalog {
	c := &linguist.Catalog{Version: "2.1", Language: language, SourceLanguage: "en_US"}
	contexts := map[string]*linguist.Context{}
	for _, ent := range e.sorted() {
		ctx, ok := contexts[ent.msg.Context]
		if !ok {
			ctx = &linguist.Context{Name: ent.msg.Context}
			contexts[ent.msg.Context] = ctx
			c.Contexts = append(c.Contexts, ctx)
		}
		ctx.Messages = append(ctx.Messages, ent.message())
	}
	c.Reindex()
	return c
}

func (ent *entry) message() *linguist.Message {
	return &linguist.Message{
		Source:       ent.msg.Source,
		Comment:      ent.msg.Comment,
		ExtraComment: strings.Join(ent.extraComments, "\n"),
		Locations:    append([]linguist.Location(nil), ent.locations...),
		Numerus:      ent.msg.Numerus,
		Type:         linguist.Unfinished,
	}
}
