package usecase

import (
	"encoding/json"
	"fmt"
	"strconv"
	"strings"

	"wealth_backend/internal/feature/summary/domain/entity"
	"wealth_backend/internal/shared/apperr"
	"wealth_backend/internal/shared/jsonwrap"
)

type toolObject struct {
	Tool string   `json:"tool"`
	Data []string `json:"data"`
}

// BuildEnvelope は ticker の Summary から /summary の応答を組み立てます。
func BuildEnvelope(ticker string, s entity.Summary) (entity.Envelope, error) {
	keyed, err := jsonwrap.EncodeString(map[string]entity.Summary{ticker: s})
	if err != nil {
		return entity.Envelope{}, fmt.Errorf("encode summary: %w", err)
	}
	object, err := jsonwrap.EncodeString(toolObject{Tool: entity.ToolName, Data: []string{keyed}})
	if err != nil {
		return entity.Envelope{}, fmt.Errorf("encode summary object: %w", err)
	}
	return entity.Envelope{Message: formatMessage(s), Object: object}, nil
}

// formatMessage は人が読むための "key: value" 形式の行を返します。
func formatMessage(s entity.Summary) string {
	var b strings.Builder
	line := func(k, v string) {
		b.WriteString(k)
		b.WriteString(": ")
		b.WriteString(v)
		b.WriteString("\n")
	}
	f := func(v float64) string { return strconv.FormatFloat(v, 'f', -1, 64) }

	line("name", s.Name)
	line("open", f(s.Open))
	line("high", f(s.High))
	line("low", f(s.Low))
	line("close", f(s.Close))
	line("volume", strconv.FormatInt(s.Volume, 10))
	line("outstandingSecurities", strconv.FormatInt(s.OutstandingSecurities, 10))
	return strings.TrimSuffix(b.String(), "\n")
}

// ParseSummaryEnvelope は object（文字列JSON）→ data[0]（文字列JSON）→ ticker の順に展開します。
// ticker のキーが無い場合は ok=false を返します。
func ParseSummaryEnvelope(object, ticker string) (entity.Summary, bool, error) {
	var obj toolObject
	if err := json.Unmarshal([]byte(object), &obj); err != nil {
		return entity.Summary{}, false, fmt.Errorf("%w: decode summary object: %v", apperr.ErrParse, err)
	}
	if len(obj.Data) == 0 {
		return entity.Summary{}, false, fmt.Errorf("%w: summary object has no data", apperr.ErrParse)
	}

	var byTicker map[string]entity.Summary
	if err := json.Unmarshal([]byte(obj.Data[0]), &byTicker); err != nil {
		return entity.Summary{}, false, fmt.Errorf("%w: decode summary data: %v", apperr.ErrParse, err)
	}
	s, ok := byTicker[ticker]
	return s, ok, nil
}
