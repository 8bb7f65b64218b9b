package httpapi

import (
	"net/http"

	"dewchart/internal/modules/dewpoint/service"
)

func NewMux(report *service.Report) *http.ServeMux {
	mux := http.NewServeMux()
	registerHealthcheck(mux, report)
	return mux
}
