package i18n

import (
	"strings"

	"golang.org/x/text/language"
)

// Message keys understood by the built-in dictionaries.
const (
	InvalidUTF8         = "invalid_utf8"
	NumberExpected      = "number_expected"
	NumberTooLarge      = "number_too_large"
	StringExpected      = "string_expected"
	BooleanExpected     = "boolean_expected"
	ArrayExpected       = "array_expected"
	CannotBeEmpty       = "cannot_be_empty"
	ValueTooLong        = "value_too_long"
	ValueOneOf          = "value_one_of"
	ValueMustBe         = "value_must_be"
	ValueEmptyOrOneOf   = "value_empty_or_one_of"
	ValueMustBeEmpty    = "value_must_be_empty"
	UnexpectedParameter = "unexpected_parameter"
	ParameterMissing    = "parameter_missing"
	MaxElements         = "max_elements"
	ShouldBeEmpty       = "should_be_empty"
	InvalidGroupName    = "invalid_group_name"
	LLDMacroRequired    = "lld_macro_required"
	TimePeriodExpected  = "time_period_expected"
	AlreadyExists       = "already_exists"
	MaxDepthExceeded    = "max_depth_exceeded"
	DuplicateKey        = "duplicate_key"
	ParseError          = "parse_error"
	TrailingData        = "trailing_data"
)

// Translator retrieves localized messages for message keys.
// data provides values for the {placeholders} in the message (for example,
// "name" or "set").
type Translator interface {
	Message(key string, data map[string]string) string
}

var english = map[string]string{
	InvalidUTF8:         "invalid byte sequence in UTF-8",
	NumberExpected:      "a number is expected",
	NumberTooLarge:      "a number is too large",
	StringExpected:      "a character string is expected",
	BooleanExpected:     "a boolean is expected",
	ArrayExpected:       "an array is expected",
	CannotBeEmpty:       "cannot be empty",
	ValueTooLong:        "value is too long",
	ValueOneOf:          "value must be one of {set}",
	ValueMustBe:         "value must be {set}",
	ValueEmptyOrOneOf:   "value must be empty or one of {set}",
	ValueMustBeEmpty:    "value must be empty",
	UnexpectedParameter: `unexpected parameter "{name}"`,
	ParameterMissing:    `the parameter "{name}" is missing`,
	MaxElements:         "maximum number of array elements is {max}",
	ShouldBeEmpty:       "should be empty",
	InvalidGroupName:    `invalid group name "{value}"`,
	LLDMacroRequired:    "must contain at least one low-level discovery macro",
	TimePeriodExpected:  "a time period is expected",
	AlreadyExists:       "value {value} already exists",
	MaxDepthExceeded:    "max depth exceeded",
	DuplicateKey:        `key "{key}" duplicated`,
	ParseError:          "cannot parse input: {reason}",
	TrailingData:        "unexpected data after the top-level value",
}

var japanese = map[string]string{
	InvalidUTF8:         "UTF-8 として不正なバイト列です",
	NumberExpected:      "数値が必要です",
	NumberTooLarge:      "数値が大きすぎます",
	StringExpected:      "文字列が必要です",
	BooleanExpected:     "真偽値が必要です",
	ArrayExpected:       "配列が必要です",
	CannotBeEmpty:       "空にできません",
	ValueTooLong:        "値が長すぎます",
	ValueOneOf:          "値は {set} のいずれかである必要があります",
	ValueMustBe:         "値は {set} である必要があります",
	ValueEmptyOrOneOf:   "値は空または {set} のいずれかである必要があります",
	ValueMustBeEmpty:    "値は空である必要があります",
	UnexpectedParameter: `想定外のパラメータ "{name}" です`,
	ParameterMissing:    `パラメータ "{name}" がありません`,
	MaxElements:         "配列要素数の上限は {max} です",
	ShouldBeEmpty:       "空である必要があります",
	InvalidGroupName:    `グループ名 "{value}" が不正です`,
	LLDMacroRequired:    "ローレベルディスカバリマクロを少なくとも1つ含む必要があります",
	TimePeriodExpected:  "時間帯の指定が必要です",
	AlreadyExists:       "値 {value} は既に存在します",
	MaxDepthExceeded:    "ネストが深すぎます",
	DuplicateKey:        `キー "{key}" が重複しています`,
	ParseError:          "入力を解析できません: {reason}",
	TrailingData:        "トップレベルの値の後に余分なデータがあります",
}

// dictTranslator is the built-in dictionary-based Translator.
type dictTranslator struct{ dict map[string]string }

func (t dictTranslator) Message(key string, data map[string]string) string {
	msg, ok := t.dict[key]
	if !ok {
		if msg, ok = english[key]; !ok {
			return key
		}
	}
	if len(data) == 0 {
		return msg
	}
	pairs := make([]string, 0, 2*len(data))
	for k, v := range data {
		pairs = append(pairs, "{"+k+"}", v)
	}
	return strings.NewReplacer(pairs...).Replace(msg)
}

var matcher = language.NewMatcher([]language.Tag{language.English, language.Japanese})

// New returns the built-in Translator best matching lang, a BCP 47 tag or
// Accept-Language style list ("ja-JP", "fr, ja;q=0.8"). Unknown or empty
// languages fall back to English.
func New(lang string) Translator {
	if lang == "" {
		return Default()
	}
	_, idx := language.MatchStrings(matcher, lang)
	if idx == 1 {
		return dictTranslator{dict: japanese}
	}
	return Default()
}

// Default returns the English Translator.
func Default() Translator { return dictTranslator{dict: english} }
