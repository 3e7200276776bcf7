package httpapi

import "net/http"

func registerSystemRoutes(mux *http.ServeMux, handler *Handler) {
	mux.HandleFunc("GET /healthz", handler.Healthz)
}

func registerSeasonRoutes(mux *http.ServeMux, handler *Handler) {
	mux.HandleFunc("GET /v1/seasons", handler.ListSeasons)
	mux.HandleFunc("GET /v1/seasons/{year}", handler.GetSeason)
	mux.HandleFunc("GET /v1/seasons/{year}/weeks/{week}", handler.GetWeek)
	mux.HandleFunc("GET /v1/seasons/{year}/teams/{teamID}", handler.GetTeamSeason)
	mux.HandleFunc("GET /v1/seasons/{year}/lottery", handler.GetLottery)
	mux.HandleFunc("GET /v1/seasons/{year}/payouts", handler.GetPayouts)
	mux.HandleFunc("GET /v1/teams/{teamID}/history", handler.GetTeamHistory)
	mux.HandleFunc("GET /v1/teams/{teamID}/similar-seasons", handler.GetSimilarSeasons)
	mux.HandleFunc("GET /v1/matchups/{teamA}/{teamB}", handler.GetMatchup)
	mux.HandleFunc("GET /v1/top-seasons", handler.GetTopSeasons)
	mux.HandleFunc("GET /v1/belt", handler.GetBeltHistory)
	mux.HandleFunc("GET /v1/expected-wins", handler.GetExpectedWins)
	mux.HandleFunc("GET /v1/playoff-odds", handler.GetPlayoffOdds)
}

func registerFinderRoutes(mux *http.ServeMux, handler *Handler) {
	mux.HandleFunc("GET /v1/finders/games", handler.FindGames)
	mux.HandleFunc("GET /v1/finders/seasons", handler.FindSeasons)
	mux.HandleFunc("GET /v1/finders/trades", handler.FindTrades)
	mux.HandleFunc("GET /v1/finders/keepers", handler.FindKeepers)
	mux.HandleFunc("GET /v1/finders/draft-picks", handler.FindDraftPicks)
}

func registerGazetteRoutes(mux *http.ServeMux, handler *Handler) {
	mux.HandleFunc("GET /v1/gazettes", handler.ListGazettes)
	mux.HandleFunc("GET /v1/gazettes/{slug}", handler.GetGazette)
	mux.HandleFunc("POST /v1/gazettes/{slug}/email", handler.SendGazetteEmail)
}

func registerAdminRoutes(mux *http.ServeMux, handler *Handler) {
	mux.HandleFunc("POST /v1/admin/cache/flush", handler.FlushCache)
	mux.HandleFunc("POST /v1/admin/cache/pre-build", handler.PreBuildCache)
	mux.HandleFunc("POST /v1/admin/cache/rebuild", handler.RebuildCache)
}
