// internal/visualizer/view.go
package visualizer

import (
	"context"
	"sync"
	"time"

	"capital-match/internal/common/errors"
	"capital-match/internal/common/logger"
	"capital-match/internal/common/metrics"
	"capital-match/internal/common/observability"
	"capital-match/internal/matching"
	"capital-match/internal/models"
)

type Status string

const (
	StatusPlaceholder Status = "placeholder"
	StatusLoading     Status = "loading"
	StatusReady       Status = "ready"
	StatusUnavailable Status = "unavailable"
)

// FactorClickFunc receives the factor name of a clicked connection.
type FactorClickFunc func(factor string)

type Option func(*View)

func WithFactorClick(fn FactorClickFunc) Option {
	return func(v *View) { v.onFactorClick = fn }
}

func WithLogger(log logger.Logger) Option {
	return func(v *View) { v.logger = logger.Component(log, "visualizer") }
}

func WithObservability(obs *observability.Observability) Option {
	return func(v *View) {
		if obs != nil {
			v.obs = obs
		}
	}
}

// View owns the evaluation lifecycle for one LP/deal selection.
//
// Every evaluation takes a sequence token and cancels the request it replaces;
// a completion carrying an older token is dropped. A foreground load (new
// selection) hides the previous diagram. A background refresh keeps the
// previous evaluation and restores it if the refresh fails.
type View struct {
	engine        matching.Engine
	logger        logger.Logger
	obs           *observability.Observability
	onFactorClick FactorClickFunc

	base  context.Context
	close context.CancelFunc
	wg    sync.WaitGroup

	mu       sync.Mutex
	lp       *models.LP
	deal     *models.Deal
	status   Status
	result   *models.EvaluateResponse
	err      *errors.StandardError
	seq      uint64
	cancel   context.CancelFunc
	loadedAt time.Time
}

func NewView(engine matching.Engine, opts ...Option) *View {
	base, cancel := context.WithCancel(context.Background())
	v := &View{
		engine: engine,
		logger: logger.NewNoOpLogger(),
		obs:    observability.NewNoop(),
		base:   base,
		close:  cancel,
		status: StatusPlaceholder,
	}
	for _, opt := range opts {
		opt(v)
	}
	return v
}

// Select replaces the LP/deal pair. When both are present an evaluation
// starts in the background and its token is returned; otherwise the view
// falls back to placeholders and the token is 0.
func (v *View) Select(lp *models.LP, deal *models.Deal) uint64 {
	v.mu.Lock()
	defer v.mu.Unlock()

	v.lp, v.deal = copyLP(lp), copyDeal(deal)
	v.result = nil
	v.err = nil

	if v.lp == nil || v.deal == nil {
		v.abortLocked()
		v.seq++
		v.status = StatusPlaceholder
		return 0
	}
	return v.startLocked(false)
}

// Refresh re-evaluates the current pair in the background. It is a no-op in
// the placeholder state.
func (v *View) Refresh() uint64 {
	v.mu.Lock()
	defer v.mu.Unlock()

	if v.lp == nil || v.deal == nil {
		return 0
	}
	return v.startLocked(v.result != nil)
}

func (v *View) startLocked(background bool) uint64 {
	v.abortLocked()
	v.seq++
	token := v.seq
	v.status = StatusLoading
	if !background {
		v.err = nil
	}

	ctx, cancel := context.WithCancel(v.base)
	v.cancel = cancel
	lp, deal := *v.lp, *v.deal

	v.wg.Add(1)
	go func() {
		defer v.wg.Done()
		defer cancel()
		resp, err := v.engine.Evaluate(ctx, lp, deal)
		v.complete(token, background, resp, err)
	}()
	return token
}

func (v *View) abortLocked() {
	if v.cancel != nil {
		v.cancel()
		v.cancel = nil
	}
}

func (v *View) complete(token uint64, background bool, resp *models.EvaluateResponse, err error) {
	v.mu.Lock()
	defer v.mu.Unlock()

	if token != v.seq {
		metrics.StaleResponsesDropped.WithLabelValues(matching.OpEvaluate).Inc()
		v.obs.RecordStaleResponse(v.base, matching.OpEvaluate)
		v.logger.Debug("dropping superseded evaluation", map[string]interface{}{
			"token":  token,
			"latest": v.seq,
		})
		return
	}
	v.cancel = nil

	if err != nil {
		stdErr := errors.AsStandard(err)
		v.err = stdErr
		fields := map[string]interface{}{
			"lpId":       v.lp.ID,
			"dealId":     v.deal.ID,
			"errorCode":  string(stdErr.Code),
			"background": background,
		}
		if background && v.result != nil {
			v.status = StatusReady
			v.logger.Warn("background refresh failed, keeping previous evaluation", fields)
			return
		}
		v.status = StatusUnavailable
		v.logger.Warn("evaluation unavailable", fields)
		return
	}

	v.result = resp
	v.err = nil
	v.status = StatusReady
	v.loadedAt = time.Now().UTC()
}

// Wait blocks until every in-flight evaluation has completed.
func (v *View) Wait() {
	v.wg.Wait()
}

// Close cancels in-flight evaluations and waits for them to return.
func (v *View) Close() {
	v.mu.Lock()
	v.seq++
	v.abortLocked()
	v.mu.Unlock()
	v.close()
	v.wg.Wait()
}

// ErrorInfo describes why no evaluation is available.
type ErrorInfo struct {
	Code      string `json:"code"`
	Message   string `json:"message"`
	Retryable bool   `json:"retryable"`
}

func errorInfo(e *errors.StandardError) *ErrorInfo {
	if e == nil {
		return nil
	}
	return &ErrorInfo{Code: string(e.Code), Message: e.Message, Retryable: e.Retryable}
}

// Snapshot is a point-in-time rendering of the view.
type Snapshot struct {
	Status     Status     `json:"status"`
	StatusText string     `json:"statusText,omitempty"`
	Token      uint64     `json:"token"`
	Header     Header     `json:"header"`
	Diagram    *Diagram   `json:"diagram,omitempty"`
	Error      *ErrorInfo `json:"error,omitempty"`
	LoadedAt   *time.Time `json:"loadedAt,omitempty"`
}

// Snapshot renders the current state. hovered is ephemeral and never stored.
// While loading no diagram is returned, including during a refresh.
func (v *View) Snapshot(hovered string) Snapshot {
	v.mu.Lock()
	defer v.mu.Unlock()

	snap := Snapshot{
		Status: v.status,
		Token:  v.seq,
		Header: HeaderFor(v.lp, v.deal),
		Error:  errorInfo(v.err),
	}
	switch v.status {
	case StatusLoading:
		snap.StatusText = LoadingText
		snap.Error = nil
	case StatusReady:
		snap.Diagram = Build(snap.Header, v.result, hovered)
		loaded := v.loadedAt
		snap.LoadedAt = &loaded
	}
	return snap
}

// Evaluation returns the last successful evaluation, if any.
func (v *View) Evaluation() (*models.EvaluateResponse, bool) {
	v.mu.Lock()
	defer v.mu.Unlock()
	if v.result == nil {
		return nil, false
	}
	cp := *v.result
	return &cp, true
}

// Selection returns copies of the selected LP and deal.
func (v *View) Selection() (*models.LP, *models.Deal) {
	v.mu.Lock()
	defer v.mu.Unlock()
	return copyLP(v.lp), copyDeal(v.deal)
}

// ClickFactor forwards a connection click to the registered callback. The
// factor must be part of the displayed evaluation.
func (v *View) ClickFactor(factor string) error {
	v.mu.Lock()
	known := false
	if v.status == StatusReady && v.result != nil {
		for _, f := range v.result.Factors {
			if f.Factor == factor {
				known = true
				break
			}
		}
	}
	cb := v.onFactorClick
	v.mu.Unlock()

	if !known {
		return errors.NewInvalidInputError("factor " + factor + " is not part of the displayed evaluation")
	}
	if cb != nil {
		cb(factor)
	}
	return nil
}

func copyLP(lp *models.LP) *models.LP {
	if lp == nil {
		return nil
	}
	cp := *lp
	return &cp
}

func copyDeal(d *models.Deal) *models.Deal {
	if d == nil {
		return nil
	}
	cp := *d
	return &cp
}
