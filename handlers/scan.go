package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"

	"go.uber.org/zap"

	"ghagga-dashboard/models"
	"ghagga-dashboard/scanner"
)

const maxScanBody = 10 << 20

type Scanner interface {
	Scan(ctx context.Context, req models.ScanRequest) (*models.ScanResponse, error)
}

type ReviewRecorder interface {
	CompletePendingReview(ctx context.Context, r models.Review) error
}

// StatsRefresher is poked after a review changes the numbers.
type StatsRefresher interface {
	Refresh(ctx context.Context)
}

// Scan runs Semgrep over the posted files. When the request names a pull
// request the outcome is stored as its review.
func Scan(sc Scanner, reviews ReviewRecorder, stats StatsRefresher, log *zap.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req models.ScanRequest
		if err := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxScanBody)).Decode(&req); err != nil {
			status, errResp := HandleError(fmt.Errorf("%w: %v", errInvalidInput, err))
			WriteError(w, status, errResp)
			return
		}
		if req.RulesConfig == "" {
			req.RulesConfig = "custom"
		}
		if req.RulesConfig != "custom" && req.RulesConfig != "auto" {
			status, errResp := HandleError(fmt.Errorf("%w: rules_config must be custom or auto", errInvalidInput))
			WriteError(w, status, errResp)
			return
		}

		resp, err := sc.Scan(r.Context(), req)
		if err != nil {
			log.Error("scan failed", zap.Int("files", len(req.Files)), zap.Error(err))
			status, errResp := HandleError(err)
			if status == http.StatusInternalServerError && !errors.Is(err, scanner.ErrRulesMissing) {
				errResp.Error.Code = "SCAN_FAILED"
				errResp.Error.Message = err.Error()
			}
			WriteError(w, status, errResp)
			return
		}

		if req.Repository != "" && req.PullNumber > 0 {
			review := models.Review{
				Repository: req.Repository,
				PullNumber: req.PullNumber,
				Status:     models.ReviewPassed,
				Findings:   len(resp.Findings),
			}
			if resp.HasErrors() {
				review.Status = models.ReviewFailed
			}
			if err := reviews.CompletePendingReview(r.Context(), review); err != nil {
				log.Error("record review",
					zap.String("repository", req.Repository),
					zap.Int("pull_number", req.PullNumber),
					zap.Error(err),
				)
			} else {
				stats.Refresh(r.Context())
			}
		}

		writeJSON(w, http.StatusOK, resp)
	}
}
