package handlers

import (
	"net/http"

	"github.com/pysugar/quicktrans/internal/lang"
	"github.com/pysugar/quicktrans/internal/platform/catalog"
	"github.com/pysugar/quicktrans/internal/version"
)

type languageInfo struct {
	Code     string `json:"code"`
	English  string `json:"english"`
	Native   string `json:"native"`
	IsTarget bool   `json:"isTarget"`
}

func LanguagesHandler() http.HandlerFunc {
	langs := make([]languageInfo, 0, len(lang.All()))
	for _, l := range lang.All() {
		langs = append(langs, languageInfo{
			Code:     l.Code(),
			English:  l.DisplayName(lang.English),
			Native:   l.DisplayName(lang.Native),
			IsTarget: l.IsTarget(),
		})
	}
	return func(w http.ResponseWriter, r *http.Request) {
		success(w, langs)
	}
}

// PlatformsHandler lists the platform presets so the settings window can
// prefill apiUrl and modelName when the user switches platform.
func PlatformsHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		success(w, catalog.List())
	}
}

func VersionHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		success(w, version.Info())
	}
}
