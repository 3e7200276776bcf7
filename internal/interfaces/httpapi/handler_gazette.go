package httpapi

import (
	"net/http"
	"strings"
	"time"
)

func (h *Handler) ListGazettes(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.ListGazettes")
	defer span.End()

	publishedOnly, err := queryBool(r.URL.Query(), "published_only")
	if err != nil {
		writeError(ctx, w, err)
		return
	}

	gazettes, err := h.gazetteService.List(ctx, publishedOnly)
	if err != nil {
		h.logger.ErrorContext(ctx, "list gazettes failed", "error", err)
		writeError(ctx, w, err)
		return
	}

	items := make([]gazetteListItemDTO, 0, len(gazettes))
	for _, g := range gazettes {
		items = append(items, gazetteListItemDTO{
			ID:            g.ID,
			Headline:      g.Headline,
			Slug:          g.Slug,
			Published:     g.Published,
			PublishedDate: formatDate(g.PublishedDate),
			EmailSent:     g.EmailSent,
			Tags:          g.Tags,
		})
	}

	writeSuccess(ctx, w, http.StatusOK, items)
}

func (h *Handler) GetGazette(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.GetGazette")
	defer span.End()

	slug := strings.TrimSpace(r.PathValue("slug"))
	g, err := h.gazetteService.GetBySlug(ctx, slug)
	if err != nil {
		h.logger.WarnContext(ctx, "get gazette failed", "slug", slug, "error", err)
		writeError(ctx, w, err)
		return
	}

	body, err := h.gazetteService.InflatedBody(ctx, g)
	if err != nil {
		h.logger.WarnContext(ctx, "inflate gazette body failed", "slug", slug, "error", err)
		writeError(ctx, w, err)
		return
	}

	writeSuccess(ctx, w, http.StatusOK, gazetteDTO{
		ID:            g.ID,
		Headline:      g.Headline,
		Slug:          g.Slug,
		Published:     g.Published,
		PublishedDate: formatDate(g.PublishedDate),
		Body:          body,
		UseMarkdown:   g.UseMarkdown,
		EmailSent:     g.EmailSent,
		Tags:          g.Tags,
	})
}

func (h *Handler) SendGazetteEmail(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.SendGazetteEmail")
	defer span.End()

	slug := strings.TrimSpace(r.PathValue("slug"))
	if err := h.gazetteService.SendEmail(ctx, slug); err != nil {
		h.logger.WarnContext(ctx, "send gazette email failed", "slug", slug, "error", err)
		writeError(ctx, w, err)
		return
	}

	writeSuccess(ctx, w, http.StatusOK, map[string]string{"status": "sent", "slug": slug})
}

type gazetteListItemDTO struct {
	ID            int64    `json:"id"`
	Headline      string   `json:"headline"`
	Slug          string   `json:"slug"`
	Published     bool     `json:"published"`
	PublishedDate string   `json:"publishedDate,omitempty"`
	EmailSent     bool     `json:"emailSent"`
	Tags          []string `json:"tags,omitempty"`
}

type gazetteDTO struct {
	ID            int64    `json:"id"`
	Headline      string   `json:"headline"`
	Slug          string   `json:"slug"`
	Published     bool     `json:"published"`
	PublishedDate string   `json:"publishedDate,omitempty"`
	Body          string   `json:"body"`
	UseMarkdown   bool     `json:"useMarkdown"`
	EmailSent     bool     `json:"emailSent"`
	Tags          []string `json:"tags,omitempty"`
}

func formatDate(t *time.Time) string {
	if t == nil {
		return ""
	}
	return t.UTC().Format(time.RFC3339)
}
