// Package usecase はチャットアシスタントの段階的な処理を実装します。
//
// 1回の実行は understanding → retrieving → composing の順に進み、各段階で
// started と completed（または failed/skipped）を通知した後、answer か error で終わります。
package usecase

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/google/uuid"

	"wealth_backend/internal/api"
	"wealth_backend/internal/feature/assistant/domain/entity"
	intent "wealth_backend/internal/feature/intent/domain/entity"
	stock "wealth_backend/internal/feature/stock/domain/entity"
	summary "wealth_backend/internal/feature/summary/domain/entity"
	summaryusecase "wealth_backend/internal/feature/summary/usecase"
	"wealth_backend/internal/shared/apperr"
)

// FallbackAnswer は依頼を分類できなかった場合の回答です。
const FallbackAnswer = "I can show stock price history, daily quote summaries and company profiles. Could you rephrase your request with a company name or ticker?"

// Classifier は自然言語の依頼を分類します。
type Classifier interface {
	Classify(ctx context.Context, naturalLanguage string) (intent.Intent, error)
}

// PointsGetter は株価時系列を取得します。
type PointsGetter interface {
	GetPoints(ctx context.Context, companyName, timeframe string) (stock.Series, []stock.Point, error)
}

// SummaryGetter は銘柄サマリーを取得します。
type SummaryGetter interface {
	GetSummary(ctx context.Context, ticker string) (summary.Envelope, error)
}

// CompanySearcher は企業データを検索します。
type CompanySearcher interface {
	Search(ctx context.Context, query string) (json.RawMessage, error)
}

// AssistantUsecase はアシスタントの1回の実行をイベント列として返します。
type AssistantUsecase struct {
	classifier Classifier
	stock      PointsGetter
	summary    SummaryGetter
	search     CompanySearcher
	now        func() time.Time
	newID      func() string
}

// NewAssistantUsecase は AssistantUsecase を生成します。
func NewAssistantUsecase(classifier Classifier, stock PointsGetter, summary SummaryGetter, search CompanySearcher) *AssistantUsecase {
	return &AssistantUsecase{
		classifier: classifier,
		stock:      stock,
		summary:    summary,
		search:     search,
		now:        time.Now,
		newID:      func() string { return uuid.NewString() },
	}
}

// retrieval は retrieving 段階の結果です。
type retrieval struct {
	endpoint string
	subject  string
	data     any
	points   []stock.Point
	name     string
	message  string
	// found は /summary で subject のレコードが見つかったかです。
	found bool
}

// Run は message を処理し、進行イベントを流すチャネルを返します。
// チャネルは最後のイベントの後で閉じられます。ctx がキャンセルされると途中で閉じます。
func (u *AssistantUsecase) Run(ctx context.Context, message string) <-chan entity.Event {
	events := make(chan entity.Event, len(entity.Stages)*2+1)
	r := &run{u: u, ctx: ctx, id: u.newID(), out: events}

	go func() {
		defer close(events)
		r.execute(strings.TrimSpace(message))
	}()
	return events
}

type run struct {
	u   *AssistantUsecase
	ctx context.Context
	id  string
	out chan<- entity.Event
}

func (r *run) emit(ev entity.Event) bool {
	ev.RunID = r.id
	ev.At = r.u.now()
	select {
	case r.out <- ev:
		return true
	case <-r.ctx.Done():
		return false
	}
}

func (r *run) stage(s entity.Stage, status entity.Status, msg string) bool {
	return r.emit(entity.Event{Type: entity.EventStage, Stage: s, Status: status, Message: msg})
}

func (r *run) fail(s entity.Stage, err error, userMsg string) {
	slog.Warn("assistant stage failed", "run_id", r.id, "stage", s, "error", err, "error_kind", apperr.Kind(err))
	if r.stage(s, entity.StatusFailed, userMsg) {
		r.emit(entity.Event{Type: entity.EventError, Message: userMsg})
	}
}

func (r *run) execute(message string) {
	if message == "" {
		r.emit(entity.Event{Type: entity.EventError, Message: "message is required"})
		return
	}

	// understanding
	if !r.stage(entity.StageUnderstanding, entity.StatusStarted, "Understanding your request") {
		return
	}
	in, err := r.u.classifier.Classify(r.ctx, message)
	if err != nil {
		r.fail(entity.StageUnderstanding, err, "failed to interpret request")
		return
	}
	if !r.stage(entity.StageUnderstanding, entity.StatusCompleted, describeIntent(in)) {
		return
	}

	// retrieving
	if !r.stage(entity.StageRetrieving, entity.StatusStarted, "Retrieving data") {
		return
	}
	var res *retrieval
	if in.Known() {
		res, err = r.retrieve(in)
		if err != nil {
			r.fail(entity.StageRetrieving, err, "failed to fetch data")
			return
		}
		if !r.stage(entity.StageRetrieving, entity.StatusCompleted, "Retrieved "+res.endpoint) {
			return
		}
	} else if !r.stage(entity.StageRetrieving, entity.StatusSkipped, "Nothing to retrieve") {
		return
	}

	// composing
	if !r.stage(entity.StageComposing, entity.StatusStarted, "Composing the answer") {
		return
	}
	answer, data := compose(res)
	if !r.stage(entity.StageComposing, entity.StatusCompleted, "") {
		return
	}
	r.emit(entity.Event{Type: entity.EventAnswer, Message: answer, Data: data})
}

func (r *run) retrieve(in intent.Intent) (*retrieval, error) {
	endpoint := *in.Endpoint
	subject := in.ArgsOr("")
	if subject == "" {
		return nil, fmt.Errorf("%w: %s needs an argument", apperr.ErrValidation, endpoint)
	}
	res := &retrieval{endpoint: endpoint, subject: subject}

	switch endpoint {
	case intent.EndpointStock:
		s, points, err := r.u.stock.GetPoints(r.ctx, subject, string(stock.DefaultTimeframe))
		if err != nil {
			return nil, err
		}
		res.name, res.points = s.Name, points
		res.data = api.StockResponse{Name: s.Name, Data: s.Data}
	case intent.EndpointSummary:
		env, err := r.u.summary.GetSummary(r.ctx, subject)
		if err != nil {
			return nil, err
		}
		rec, ok, err := summaryusecase.ParseSummaryEnvelope(env.Object, strings.ToUpper(subject))
		if err != nil {
			return nil, err
		}
		res.found = ok
		if ok {
			res.message = env.Message
			res.data = rec
		}
	case intent.EndpointCompanyDataSearch:
		raw, err := r.u.search.Search(r.ctx, subject)
		if err != nil {
			return nil, err
		}
		res.data = raw
	default:
		return nil, errors.New("unsupported endpoint " + endpoint)
	}
	return res, nil
}

func describeIntent(in intent.Intent) string {
	if !in.Known() {
		return "Request not matched to a data source"
	}
	return fmt.Sprintf("Looking up %s for %q", strings.TrimPrefix(*in.Endpoint, "/"), in.ArgsOr(""))
}

// compose は取得結果から回答文と添付データを作ります。
func compose(res *retrieval) (string, any) {
	if res == nil {
		return FallbackAnswer, nil
	}
	switch res.endpoint {
	case intent.EndpointStock:
		return describePoints(res.name, res.points), res.data
	case intent.EndpointSummary:
		if !res.found {
			return fmt.Sprintf("No summary is available for %s.", strings.ToUpper(res.subject)), nil
		}
		return fmt.Sprintf("Summary for %s:\n%s", strings.ToUpper(res.subject), res.message), res.data
	default:
		return fmt.Sprintf("Here is the company data I found for %q.", res.subject), res.data
	}
}

func describePoints(name string, points []stock.Point) string {
	if len(points) == 0 {
		return fmt.Sprintf("No recent price data is available for %s.", name)
	}
	first, last := points[0], points[len(points)-1]
	msg := fmt.Sprintf("%s closed at %.2f on %s", name, last.Price, last.Date.Format("2006-01-02"))
	if len(points) > 1 && first.Price != 0 {
		change := (last.Price - first.Price) / first.Price * 100
		msg += fmt.Sprintf(", %+.2f%% since %s", change, first.Date.Format("2006-01-02"))
	}
	return msg + "."
}
