package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strings"

	"github.com/pysugar/quicktrans/internal/lang"
	"github.com/pysugar/quicktrans/internal/translate"
)

// Translator is implemented by *translate.Service.
type Translator interface {
	Translate(ctx context.Context, text string, to, from lang.Language) (string, error)
}

type translateRequest struct {
	Text       string        `json:"text"`
	TargetLang lang.Language `json:"targetLang"`
	SourceLang lang.Language `json:"sourceLang"`
}

// TranslateHandler runs one translation. sourceLang defaults to auto.
func TranslateHandler(t Translator) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req translateRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			fail(w, http.StatusBadRequest, "invalid request body: "+err.Error())
			return
		}
		if strings.TrimSpace(req.Text) == "" {
			fail(w, http.StatusBadRequest, "text is required")
			return
		}
		if !req.TargetLang.IsTarget() {
			fail(w, http.StatusBadRequest, "targetLang must be one of zh, en, ja, ko")
			return
		}
		if req.SourceLang == 0 {
			req.SourceLang = lang.Auto
		}

		text, err := t.Translate(r.Context(), req.Text, req.TargetLang, req.SourceLang)
		if err != nil {
			fail(w, statusForTranslateError(err), err.Error())
			return
		}
		success(w, text)
	}
}

func statusForTranslateError(err error) int {
	switch translate.StageOf(err) {
	case translate.StageBuild:
		return http.StatusBadRequest
	case translate.StageSend, translate.StageParse:
		if errors.Is(err, context.DeadlineExceeded) {
			return http.StatusGatewayTimeout
		}
		return http.StatusBadGateway
	default:
		return http.StatusInternalServerError
	}
}
