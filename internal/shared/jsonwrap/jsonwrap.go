// Package jsonwrap は、JSONフィールドの中に文字列としてエンコードされたJSONを
// 1層ずつ取り出すためのヘルパーを提供します。
//
// 上流サービスは {"object": "{\"data\": \"...\"}"} のように入れ子の文字列JSONを返すため、
// 各層のデコード失敗を層の名前付きで apperr.ErrParse として返します。
package jsonwrap

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"

	"wealth_backend/internal/shared/apperr"
)

// ErrNoKeys はオブジェクトにキーが1つも無いことを表します。
var ErrNoKeys = errors.New("object has no keys")

// StringField は doc をJSONオブジェクトとしてデコードし、field の値（JSON文字列）の中身を返します。
// 値が文字列ではなくオブジェクトや配列の場合は、そのままの生JSONを返します。
func StringField(doc []byte, field string) ([]byte, error) {
	var obj map[string]json.RawMessage
	if err := json.Unmarshal(doc, &obj); err != nil {
		return nil, fmt.Errorf("%w: decode object containing %q: %v", apperr.ErrParse, field, err)
	}
	raw, ok := obj[field]
	if !ok {
		return nil, fmt.Errorf("%w: field %q is missing", apperr.ErrParse, field)
	}
	return Unquote(raw)
}

// Unquote は raw がJSON文字列ならその中身を返し、それ以外のJSON値ならそのまま返します。
func Unquote(raw json.RawMessage) ([]byte, error) {
	raw = bytes.TrimSpace(raw)
	if len(raw) == 0 || bytes.Equal(raw, []byte("null")) {
		return nil, fmt.Errorf("%w: value is empty", apperr.ErrParse)
	}
	if raw[0] != '"' {
		return raw, nil
	}
	var s string
	if err := json.Unmarshal(raw, &s); err != nil {
		return nil, fmt.Errorf("%w: decode string: %v", apperr.ErrParse, err)
	}
	return []byte(s), nil
}

// Path は fields の順に StringField を適用します。
func Path(doc []byte, fields ...string) ([]byte, error) {
	cur := doc
	for _, f := range fields {
		next, err := StringField(cur, f)
		if err != nil {
			return nil, err
		}
		cur = next
	}
	return cur, nil
}

// FirstKey はJSONオブジェクトの最初のキー（文書順）とその値、キーの総数を返します。
// map へのデコードでは順序が失われるため、トークン単位で読み進めます。
func FirstKey(doc []byte) (key string, value json.RawMessage, count int, err error) {
	dec := json.NewDecoder(bytes.NewReader(doc))

	tok, err := dec.Token()
	if err != nil {
		return "", nil, 0, fmt.Errorf("%w: %v", apperr.ErrParse, err)
	}
	if d, ok := tok.(json.Delim); !ok || d != '{' {
		return "", nil, 0, fmt.Errorf("%w: expected object, got %v", apperr.ErrParse, tok)
	}

	for dec.More() {
		tok, err := dec.Token()
		if err != nil {
			return "", nil, 0, fmt.Errorf("%w: %v", apperr.ErrParse, err)
		}
		k, ok := tok.(string)
		if !ok {
			return "", nil, 0, fmt.Errorf("%w: unexpected token %v", apperr.ErrParse, tok)
		}
		var v json.RawMessage
		if err := dec.Decode(&v); err != nil {
			return "", nil, 0, fmt.Errorf("%w: value of %q: %v", apperr.ErrParse, k, err)
		}
		if count == 0 {
			key, value = k, v
		}
		count++
	}
	if _, err := dec.Token(); err != nil {
		return "", nil, 0, fmt.Errorf("%w: %v", apperr.ErrParse, err)
	}

	if count == 0 {
		return "", nil, 0, fmt.Errorf("%w: %w", apperr.ErrParse, ErrNoKeys)
	}
	return key, value, count, nil
}

// EncodeString は v をJSONにエンコードし、その結果を文字列として返します。
// 入れ子の文字列JSONを組み立てる側で使います。
func EncodeString(v any) (string, error) {
	b, err := json.Marshal(v)
	if err != nil {
		return "", err
	}
	return string(b), nil
}
