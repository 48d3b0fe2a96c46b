package i18n

// Translator retrieves localized messages for Issue codes.
// data provides optional metadata to embed in the message (for example,
// "expected" or "key").
type Translator interface {
	Message(code string, data map[string]string) string
}

// dictTranslator is the built-in dictionary-based Translator.
type dictTranslator struct{ lang string }

func (t dictTranslator) Message(code string, data map[string]string) string {
	switch t.lang {
	case "ja":
		switch code {
		case "invalid_type":
			return "型が不正です"
		case "required":
			return "必須プロパティが不足しています"
		case "unknown_key":
			return "未知のキーです"
		case "invalid_enum":
			return "列挙値が不正です"
		case "overflow":
			return "数値が範囲外です"
		case "parse_error":
			return "解析エラー"
		case "invalid_identifier":
			return "識別子が不正です"
		case "duplicate_identifier":
			return "識別子が重複しています"
		case "no_matching_type":
			return "一致する型がありません"
		case "ambiguous_type":
			return "型を一意に決定できません"
		case "dangling_type_reference":
			return "未定義の型参照です"
		case "inheritance_cycle":
			return "継承が循環しています"
		case "empty_union":
			return "候補のないユニオンです"
		case "internal_invariant":
			return "内部不変条件の違反です"
		}
	default: // "en"
		switch code {
		case "invalid_type":
			return "invalid type"
		case "required":
			return "required property missing"
		case "unknown_key":
			return "unknown key"
		case "invalid_enum":
			return "invalid enum value"
		case "overflow":
			return "number out of range"
		case "parse_error":
			return "parse error"
		case "invalid_identifier":
			return "invalid identifier"
		case "duplicate_identifier":
			return "duplicate identifier"
		case "no_matching_type":
			return "no candidate type matches"
		case "ambiguous_type":
			return "more than one candidate type matches"
		case "dangling_type_reference":
			return "reference to undeclared type"
		case "inheritance_cycle":
			return "record inheritance forms a cycle"
		case "empty_union":
			return "union declares no candidates"
		case "internal_invariant":
			return "internal invariant violation"
		}
	}
	return code
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
