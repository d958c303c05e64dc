package lupdate

import (
	"github.com/snapcore/go-linguist"
)

type mergeKey struct {
	context, source, comment string
}

// Merge combines the extracted messages with the catalog previously
// maintained for them. Translations of strings still in use are kept;
// new strings are added unfinished. Finished translations of strings no
// longer found become vanished, unfinished ones obsolete, and empty
// unfinished entries are dropped. The old catalog is not modified.
func (e *Extractor) Merge(old *linguist.Catalog) *linguist.Catalog {
	merged := &linguist.Catalog{
		Version:        old.Version,
		Language:       old.Language,
		SourceLanguage: old.SourceLanguage,
	}
	if merged.Version == "" {
		merged.Version = "2.1"
	}

	previous := map[mergeKey]*linguist.Message{}
	for _, ctx := range old.Contexts {
		for _, msg := range ctx.Messages {
			key := mergeKey{ctx.Name, msg.Source, msg.Comment}
			if _, ok := previous[key]; !ok {
				previous[key] = msg
			}
		}
	}

	contexts := map[string]*linguist.Context{}
	context := func(name string) *linguist.Context {
		ctx, ok := contexts[name]
		if !ok {
			ctx = &linguist.Context{Name: name}
			contexts[name] = ctx
		}
		return ctx
	}
	// old contexts keep their position, new ones follow
	var order []string
	for _, ctx := range old.Contexts {
		order = append(order, ctx.Name)
		context(ctx.Name)
	}

	// every old message under a key still extracted is replaced
	used := map[mergeKey]bool{}
	for _, ent := range e.sorted() {
		msg := ent.message()
		key := mergeKey{ent.msg.Context, ent.msg.Source, ent.msg.Comment}
		if prev, ok := previous[key]; ok {
			used[key] = true
			carryOver(msg, prev)
		}
		if _, ok := contexts[ent.msg.Context]; !ok {
			order = append(order, ent.msg.Context)
		}
		ctx := context(ent.msg.Context)
		ctx.Messages = append(ctx.Messages, msg)
	}

	for _, ctx := range old.Contexts {
		for _, prev := range ctx.Messages {
			if used[mergeKey{ctx.Name, prev.Source, prev.Comment}] {
				continue
			}
			if msg := retire(prev); msg != nil {
				target := contexts[ctx.Name]
				target.Messages = append(target.Messages, msg)
			}
		}
	}

	for _, name := range order {
		if ctx := contexts[name]; len(ctx.Messages) > 0 {
			merged.Contexts = append(merged.Contexts, ctx)
		}
	}
	merged.Reindex()
	return merged
}

// carryOver copies the translation of prev into the freshly extracted msg.
func carryOver(msg, prev *linguist.Message) {
	msg.OldSource = prev.OldSource
	msg.TranslatorComment = prev.TranslatorComment
	msg.Translation = prev.Translation
	msg.NumerusForms = append([]string(nil), prev.NumerusForms...)

	switch prev.Type {
	case linguist.Finished, linguist.Vanished:
		msg.Type = linguist.Finished
	default:
		msg.Type = linguist.Unfinished
	}
	if msg.Numerus != prev.Numerus {
		// the translation no longer fits the call
		msg.Type = linguist.Unfinished
		if msg.Numerus && prev.Translation != "" {
			msg.NumerusForms = []string{prev.Translation}
		}
		if !msg.Numerus && len(prev.NumerusForms) > 0 {
			msg.Translation = prev.NumerusForms[0]
		}
	}
	if !msg.Numerus {
		msg.NumerusForms = nil
	} else {
		msg.Translation = ""
	}
}

// retire returns the entry kept for a message no longer in the sources.
func retire(prev *linguist.Message) *linguist.Message {
	msg := *prev
	msg.Locations = nil
	switch prev.Type {
	case linguist.Finished:
		msg.Type = linguist.Vanished
	case linguist.Unfinished:
		if !hasTranslation(prev) {
			return nil
		}
		msg.Type = linguist.Obsolete
	}
	return &msg
}

func hasTranslation(msg *linguist.Message) bool {
	if msg.Translation != "" {
		return true
	}
	for _, form := range msg.NumerusForms {
		if form != "" {
			return true
		}
	}
	return false
}
