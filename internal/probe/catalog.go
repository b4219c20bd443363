package probe

import (
	"net/http"

	service "github.com/okian/kitcheck/internal/app"
	"github.com/okian/kitcheck/internal/domain/kits"
)

// Scenario is one request with the outcome a healthy server must produce.
type Scenario struct {
	Name       string
	Request    service.AnalyzeRequest
	WantStatus string
	WantCode   int
}

func float(v float64) *float64 { return &v }

// Catalog is the fixed scenario set submitted by Run.
var Catalog = []Scenario{
	{
		Name:       "red-vs-blue",
		Request:    request(kits.TeamKits{HomeKit: "#FF0000"}, kits.TeamKits{HomeKit: "#0000FF"}),
		WantStatus: service.StatusOK,
		WantCode:   http.StatusOK,
	},
	{
		Name:       "black-vs-white",
		Request:    request(kits.TeamKits{HomeKit: "#000000"}, kits.TeamKits{HomeKit: "#FFFFFF"}),
		WantStatus: service.StatusOK,
		WantCode:   http.StatusOK,
	},
	{
		Name:       "shorthand-hex",
		Request:    request(kits.TeamKits{HomeKit: "#000"}, kits.TeamKits{HomeKit: "#fff"}),
		WantStatus: service.StatusOK,
		WantCode:   http.StatusOK,
	},
	{
		Name:       "team2-switches-to-awaykit",
		Request:    request(kits.TeamKits{HomeKit: "#FF0000"}, kits.TeamKits{HomeKit: "#CC0000", AwayKit: "#0000FF"}),
		WantStatus: service.StatusOK,
		WantCode:   http.StatusOK,
	},
	{
		Name:       "team1-switches-to-alternate",
		Request:    request(kits.TeamKits{HomeKit: "#FF0000", AwayKit: "#0000FF"}, kits.TeamKits{HomeKit: "#FE0101"}),
		WantStatus: service.StatusOK,
		WantCode:   http.StatusOK,
	},
	{
		Name: "zero-thresholds",
		Request: service.AnalyzeRequest{
			Team1:             &kits.TeamKits{HomeKit: "#000000"},
			Team2:             &kits.TeamKits{HomeKit: "#FFFFFF"},
			DeltaEThreshold:   float(0),
			ContrastThreshold: float(0),
		},
		WantStatus: service.StatusOK,
		WantCode:   http.StatusOK,
	},
	{
		Name:       "near-identical-reds",
		Request:    request(kits.TeamKits{HomeKit: "#FF0000"}, kits.TeamKits{HomeKit: "#FE0101"}),
		WantStatus: service.StatusConflict,
		WantCode:   http.StatusOK,
	},
	{
		Name:       "every-kit-clashes",
		Request:    request(kits.TeamKits{HomeKit: "#FF0000"}, kits.TeamKits{HomeKit: "#FE0101", AwayKit: "#FF0000"}),
		WantStatus: service.StatusConflict,
		WantCode:   http.StatusOK,
	},
	{
		Name:       "missing-homekit",
		Request:    request(kits.TeamKits{}, kits.TeamKits{HomeKit: "#fff"}),
		WantStatus: service.StatusError,
		WantCode:   http.StatusBadRequest,
	},
	{
		Name:       "invalid-color",
		Request:    request(kits.TeamKits{HomeKit: "#GGG"}, kits.TeamKits{HomeKit: "#fff"}),
		WantStatus: service.StatusError,
		WantCode:   http.StatusBadRequest,
	},
}

func request(team1, team2 kits.TeamKits) service.AnalyzeRequest {
	return service.AnalyzeRequest{Team1: &team1, Team2: &team2}
}
