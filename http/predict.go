package http

import (
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/cockroachdb/errors"
	"go.uber.org/zap"

	"teamscore/ml"
	"teamscore/monitoring"
)

type PredictResponse struct {
	Prediction     string  `json:"prediction"`
	ProbabilityNo  float64 `json:"probability_no"`
	ProbabilityYes float64 `json:"probability_yes"`
}

var outcomeByKind = map[ErrorKind]monitoring.Outcome{
	KindModelUnavailable: monitoring.OutcomeModelUnavailable,
	KindInvalidInput:     monitoring.OutcomeInvalidInput,
	KindMissingFeature:   monitoring.OutcomeMissingFeature,
	KindInvalidValue:     monitoring.OutcomeInvalidValue,
	KindInternalError:    monitoring.OutcomeInternalError,
}

func (h *Handler) handlePredict(w http.ResponseWriter, r *http.Request) {
	start := time.Now()
	logger := GetLogger(r.Context(), h.logger)

	resp, apiErr := h.predict(r, logger)
	if apiErr != nil {
		h.metrics.RecordPrediction(outcomeByKind[apiErr.Kind], time.Since(start))
		if apiErr.Kind == KindInternalError {
			logger.Error("prediction failed", zap.String("error", fmt.Sprintf("%+v", apiErr.cause)))
		} else {
			logger.Info("prediction rejected", zap.String("kind", string(apiErr.Kind)), zap.String("error", apiErr.Message))
		}
		writeError(w, logger, apiErr)
		return
	}

	h.metrics.RecordPrediction(monitoring.OutcomeSuccess, time.Since(start))
	writeJSON(w, logger, http.StatusOK, resp)
}

func (h *Handler) predict(r *http.Request, logger *zap.Logger) (PredictResponse, *APIError) {
	if h.predictor == nil {
		return PredictResponse{}, errModelUnavailable
	}

	body, err := io.ReadAll(r.Body)
	if err != nil {
		return PredictResponse{}, decodeError(errors.Wrap(err, "read request body"))
	}
	logger.Debug("received payload", zap.ByteString("payload", body))

	record, err := ml.DecodeRecord(body)
	if err != nil {
		return PredictResponse{}, decodeError(err)
	}

	encoding, err := h.encoder.EncodeRecord(record)
	logger.Debug("encoded input",
		zap.Strings("active_columns", encoding.Active),
		zap.Strings("dropped_columns", encoding.Dropped),
		zap.Int("schema_columns", len(encoding.Vector)),
	)
	if len(encoding.Dropped) > 0 {
		h.metrics.RecordDroppedColumns(len(encoding.Dropped))
	}
	if err != nil {
		return PredictResponse{}, decodeError(err)
	}

	prediction, err := h.classify(encoding.Vector)
	if err != nil {
		return PredictResponse{}, internalError(err)
	}
	logger.Debug("prediction",
		zap.String("label", prediction.Label),
		zap.Float64s("probabilities", prediction.Probabilities[:]),
		zap.Bool("cached", prediction.Cached),
	)
	h.metrics.RecordLabel(prediction.Label, prediction.Cached)

	return PredictResponse{
		Prediction:     prediction.Label,
		ProbabilityNo:  prediction.Probabilities[0],
		ProbabilityYes: prediction.Probabilities[1],
	}, nil
}

// classify converts a panic inside the model into an error.
func (h *Handler) classify(row []float64) (prediction ml.Prediction, err error) {
	defer func() {
		if rec := recover(); rec != nil {
			err = errors.Newf("panic during inference: %v", rec)
		}
	}()
	return h.predictor.Classify(row)
}
