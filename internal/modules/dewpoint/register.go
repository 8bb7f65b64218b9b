package dewpoint

import (
	"net/http"

	"dewchart/internal/modules/dewpoint/controller"
	"dewchart/internal/modules/dewpoint/service"
)

func RegisterFeature(mux *http.ServeMux, report *service.Report) {
	dewPointController := controller.NewDewPointController(report)
	dewPointController.RegisterRoutes(mux)
}
