package web

import (
	"context"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"

	"mangascout/internal/search"
	"mangascout/internal/tags"
	"mangascout/pkg/logging"
)

// Searcher runs the gallery pipeline.
type Searcher interface {
	Run(ctx context.Context, c search.Criteria) (search.Page, error)
}

// ImageSource fetches cover images from the CDN.
type ImageSource interface {
	CoverImage(ctx context.Context, mangaID, fileName string) (*http.Response, error)
}

// Pinger reports whether an optional dependency (the score cache) is usable.
type Pinger interface {
	PingContext(ctx context.Context) error
}

type Handler struct {
	Search Searcher
	Tags   *tags.Directory
	Images ImageSource
	Cache  Pinger // nil when the score cache is disabled
	log    zerolog.Logger
}

func NewHandler(s Searcher, dir *tags.Directory, images ImageSource, cache Pinger, log zerolog.Logger) *Handler {
	return &Handler{
		Search: s,
		Tags:   dir,
		Images: images,
		Cache:  cache,
		log:    log.With().Str("component", "web").Logger(),
	}
}

func (h *Handler) RegisterRoutes(rg gin.IRoutes) {
	rg.GET("/", h.index)
	rg.GET("/about", h.about)
	rg.GET("/mdimg", h.coverImage)
	rg.GET("/tags", h.tagNames)
	rg.GET("/health", h.health)
	rg.GET("/ready", h.ready)
}

// criteriaFromQuery reads gallery criteria from the query string. Malformed
// numbers are treated as absent.
func criteriaFromQuery(q url.Values) (search.Criteria, int) {
	page := max(0, parseInt(q.Get("p"), 0))

	c := search.Criteria{
		IncludeTags:      q["includes[]"],
		ExcludeTags:      q["excludes[]"],
		Offset:           search.OffsetForPage(page),
		OriginalLanguage: strings.TrimSpace(q.Get("ln")),
		RequireMALLink:   q.Get("noMal") == "",
		MALUser:          strings.TrimSpace(q.Get("malUser")),
		DisplayEn:        q.Get("displayEn") != "",
	}
	if s := strings.TrimSpace(q.Get("malMinScore")); s != "" {
		if f, err := strconv.ParseFloat(s, 64); err == nil {
			c.MinMALScore = &f
		}
	}
	return c, page
}

func (h *Handler) index(c *gin.Context) {
	q := c.Request.URL.Query()
	criteria, page := criteriaFromQuery(q)

	result, err := h.Search.Run(c.Request.Context(), criteria)
	if err != nil {
		log := logging.FromContext(c.Request.Context(), h.log)
		log.Warn().Err(err).Msg("search aborted")
		c.Status(http.StatusServiceUnavailable)
		return
	}

	c.HTML(http.StatusOK, "index.html", gin.H{
		"context": result,
		"NextURL": pageURL(q, page+1),
		"PrevURL": pageURL(q, max(0, page-1)),
		"HasPrev": page > 0,
	})
}

func pageURL(q url.Values, page int) string {
	next := url.Values{}
	for k, v := range q {
		next[k] = append([]string(nil), v...)
	}
	next.Set("p", strconv.Itoa(page))
	return "/?" + next.Encode()
}

func (h *Handler) about(c *gin.Context) {
	c.HTML(http.StatusOK, "about.html", nil)
}

// hop-by-hop headers are connection specific and never forwarded
var hopHeaders = map[string]struct{}{
	"Connection":        {},
	"Keep-Alive":        {},
	"Transfer-Encoding": {},
	"Upgrade":           {},
	"Trailer":           {},
}

func (h *Handler) coverImage(c *gin.Context) {
	mangaID := c.Query("md")
	fileName := c.Query("fn")
	if mangaID == "" || fileName == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "md and fn required"})
		return
	}

	resp, err := h.Images.CoverImage(c.Request.Context(), mangaID, fileName)
	if err != nil {
		log := logging.FromContext(c.Request.Context(), h.log)
		log.Warn().Err(err).Str("manga_id", mangaID).Msg("cover fetch failed")
		c.JSON(http.StatusBadGateway, gin.H{"error": "cover unavailable"})
		return
	}
	defer resp.Body.Close()

	for k, vs := range resp.Header {
		if _, hop := hopHeaders[http.CanonicalHeaderKey(k)]; hop {
			continue
		}
		for _, v := range vs {
			c.Writer.Header().Add(k, v)
		}
	}
	c.Status(resp.StatusCode)
	if _, err := io.Copy(c.Writer, resp.Body); err != nil {
		log := logging.FromContext(c.Request.Context(), h.log)
		log.Debug().Err(err).Msg("cover copy interrupted")
	}
}

func (h *Handler) tagNames(c *gin.Context) {
	c.JSON(http.StatusOK, h.Tags.Names())
}

func (h *Handler) health(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok", "tags": h.Tags.Len()})
}

func (h *Handler) ready(c *gin.Context) {
	if h.Cache == nil {
		c.JSON(http.StatusOK, gin.H{"status": "ready", "score_cache": "disabled"})
		return
	}

	ctx, cancel := context.WithTimeout(c.Request.Context(), 2*time.Second)
	defer cancel()
	if err := h.Cache.PingContext(ctx); err != nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{
			"status":      "not_ready",
			"score_cache": err.Error(),
		})
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": "ready", "score_cache": "ok"})
}

func parseInt(s string, def int) int {
	if strings.TrimSpace(s) == "" {
		return def
	}
	n, err := strconv.Atoi(strings.TrimSpace(s))
	if err != nil {
		return def
	}
	return n
}
