package bot

import (
	"github.com/ppiankov/persona/internal/locale"
	"github.com/ppiankov/persona/internal/present"
)

// CallbackDigest is the callback data of the digest button
const CallbackDigest = "digest"

func mainKeyboard(loc locale.Locale) ReplyKeyboardMarkup {
	return ReplyKeyboardMarkup{
		Keyboard: [][]KeyboardButton{
			{{Text: loc.Labels.Search}, {Text: loc.Labels.HelpBtn}},
		},
		ResizeKeyboard: true,
	}
}

func cancelKeyboard(loc locale.Locale) ReplyKeyboardMarkup {
	return ReplyKeyboardMarkup{
		Keyboard:       [][]KeyboardButton{{{Text: loc.Labels.Cancel}}},
		ResizeKeyboard: true,
	}
}

// moreInfoKeyboard has one row per category view, plus the digest when enabled
func moreInfoKeyboard(r *present.Renderer, loc locale.Locale, digest bool) InlineKeyboardMarkup {
	rows := make([][]InlineKeyboardButton, 0, len(present.Views)+1)
	for _, v := range present.Views {
		rows = append(rows, []InlineKeyboardButton{{Text: r.Title(v), CallbackData: string(v)}})
	}
	if digest {
		rows = append(rows, []InlineKeyboardButton{{Text: loc.Labels.Digest, CallbackData: CallbackDigest}})
	}
	return InlineKeyboardMarkup{InlineKeyboard: rows}
}
