package i18n

import "strings"

// Translator retrieves localized messages for Issue codes.
// data provides optional metadata to embed in the message (for example,
// "want" or "got").
type Translator interface {
	Message(code string, data map[string]string) string
}

// dictTranslator is the built-in dictionary-based Translator.
type dictTranslator struct{ lang string }

func (t dictTranslator) Message(code string, data map[string]string) string {
	var msg string
	switch t.lang {
	case "ja":
		switch code {
		case "missing_schema":
			msg = "スキーマが指定されていません"
		case "missing_nested_schema":
			msg = "ネストしたスキーマがありません"
		case "malformed_sequence_schema":
			msg = "シーケンスのスキーマはレコード型のフィールドを1つだけ持つ必要があります"
		case "malformed_value":
			msg = "値がスキーマと一致しません"
		case "schema_cycle":
			msg = "ネストが深すぎるか循環しています"
		case "unsupported_kind":
			msg = "未対応の種別です"
		case "write_error":
			msg = "書き込みエラー"
		case "invalid_literal":
			msg = "値を変換できないため null として扱います"
		}
	default: // "en"
		switch code {
		case "missing_schema":
			msg = "no schema supplied"
		case "missing_nested_schema":
			msg = "nested schema missing"
		case "malformed_sequence_schema":
			msg = "sequence schema must hold exactly one record field"
		case "malformed_value":
			msg = "value does not match schema"
		case "schema_cycle":
			msg = "nesting too deep or cyclic"
		case "unsupported_kind":
			msg = "unsupported kind"
		case "write_error":
			msg = "write error"
		case "invalid_literal":
			msg = "cannot convert literal, using null"
		}
	}
	if msg == "" {
		return code
	}
	return withDetail(msg, data)
}

// withDetail appends "(want=int, got=long)" style detail for the keys the
// dictionary knows about.
func withDetail(msg string, data map[string]string) string {
	if len(data) == 0 {
		return msg
	}
	var parts []string
	for _, k := range []string{"want", "got", "kind", "text", "element", "fields", "depth", "max"} {
		if v, ok := data[k]; ok {
			parts = append(parts, k+"="+v)
		}
	}
	if len(parts) == 0 {
		return msg
	}
	return msg + " (" + strings.Join(parts, ", ") + ")"
}

var currentTranslator Translator = dictTranslator{lang: "en"}

// SetLanguage switches the built-in Translator language ("en"/"ja").
func SetLanguage(lang string) {
	if lang != "ja" {
		lang = "en"
	}
	currentTranslator = dictTranslator{lang: lang}
}

// SetTranslator replaces the Translator implementation (not limited to the
// dictionary version).
func SetTranslator(tr Translator) {
	if tr == nil {
		currentTranslator = dictTranslator{lang: "en"}
		return
	}
	currentTranslator = tr
}

// T fetches a message for the given code using the current Translator.
func T(code string, data map[string]string) string { return currentTranslator.Message(code, data) }
