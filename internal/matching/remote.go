// internal/matching/remote.go
package matching

import (
	"context"
	stderrors "errors"
	"fmt"
	"net"
	"strings"
	"time"

	"capital-match/internal/common/errors"
	commonhttp "capital-match/internal/common/http"
	"capital-match/internal/common/logger"
	"capital-match/internal/models"
)

// RemoteEngine calls an external matching service over JSON/HTTP.
type RemoteEngine struct {
	baseURL string
	client  *commonhttp.Client
	logger  logger.Logger
}

func NewRemoteEngine(baseURL, apiKey string, timeout time.Duration, log logger.Logger) *RemoteEngine {
	client := commonhttp.NewClient(timeout)
	if apiKey != "" {
		client = client.WithHeader("X-API-Key", apiKey)
	}
	return &RemoteEngine{
		baseURL: strings.TrimRight(baseURL, "/"),
		client:  client,
		logger:  logger.Component(log, "matching.remote"),
	}
}

type evaluateRequest struct {
	LP   models.LP   `json:"lp"`
	Deal models.Deal `json:"deal"`
}

type simulateRequest struct {
	LP     models.LP               `json:"lp"`
	Params models.SimulationParams `json:"params"`
}

func (e *RemoteEngine) Evaluate(ctx context.Context, lp models.LP, deal models.Deal) (*models.EvaluateResponse, error) {
	var resp models.EvaluateResponse
	if err := e.client.PostJSON(ctx, e.baseURL+"/evaluate", evaluateRequest{LP: lp, Deal: deal}, &resp); err != nil {
		return nil, e.classify(ctx, OpEvaluate, err)
	}
	if err := validateEvaluate(&resp); err != nil {
		return nil, errors.NewMalformedResponseError(OpEvaluate, err)
	}
	return &resp, nil
}

func (e *RemoteEngine) Simulate(ctx context.Context, lp models.LP, params models.SimulationParams) (*models.SimulateResponse, error) {
	var resp models.SimulateResponse
	if err := e.client.PostJSON(ctx, e.baseURL+"/simulate", simulateRequest{LP: lp, Params: params}, &resp); err != nil {
		return nil, e.classify(ctx, OpSimulate, err)
	}
	if resp.ConfidenceScore < 0 || resp.ConfidenceScore > 100 {
		return nil, errors.NewMalformedResponseError(OpSimulate,
			fmt.Errorf("confidenceScore %v outside 0-100", resp.ConfidenceScore))
	}
	return &resp, nil
}

func (e *RemoteEngine) classify(ctx context.Context, op string, err error) error {
	e.logger.Warn("matching engine call failed", map[string]interface{}{
		"operation": op,
		"error":     err.Error(),
	})

	var netErr net.Error
	if stderrors.Is(ctx.Err(), context.DeadlineExceeded) || (stderrors.As(err, &netErr) && netErr.Timeout()) {
		return errors.NewEvaluationTimeoutError(op)
	}
	var decodeErr *commonhttp.DecodeError
	if stderrors.As(err, &decodeErr) {
		return errors.NewMalformedResponseError(op, err)
	}
	return errors.NewEvaluationUnavailableError(err)
}

func validateEvaluate(resp *models.EvaluateResponse) error {
	for i, f := range resp.Factors {
		if f.Factor == "" {
			return fmt.Errorf("factors[%d]: empty factor name", i)
		}
		switch f.Strength {
		case models.StrengthStrong, models.StrengthModerate, models.StrengthWeak:
		default:
			return fmt.Errorf("factors[%d]: unknown strength %q", i, f.Strength)
		}
		if f.Contribution < 0 {
			return fmt.Errorf("factors[%d]: negative contribution", i)
		}
	}
	if resp.ConfidenceScore < 0 || resp.ConfidenceScore > 100 {
		return fmt.Errorf("confidenceScore %v outside 0-100", resp.ConfidenceScore)
	}
	return nil
}
