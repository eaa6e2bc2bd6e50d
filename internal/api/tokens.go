package api

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"pumpwatch/internal/domain"
	"pumpwatch/internal/score"
	"pumpwatch/internal/storage"
	"pumpwatch/internal/view"
)

// listTokens serves the filtered/sorted/paginated token view.
func (s *Server) listTokens(c *gin.Context) {
	q, err := parseViewQuery(c)
	if err != nil {
		fail(c, http.StatusBadRequest, err.Error())
		return
	}

	records, err := s.tokens.GetAll(c.Request.Context())
	if err != nil {
		fail(c, http.StatusInternalServerError, "failed to read tokens")
		return
	}

	page := view.Build(records, s.watchlist.URIs(), q)
	ok(c, page)
}

// getToken serves one record by mint with its derived score and risk. When
// the stored metadata carries no social links and a detail source is
// configured, the links are filled in from it best-effort.
func (s *Server) getToken(c *gin.Context) {
	mint := c.Param("mint")

	rec, err := s.tokens.GetByMint(c.Request.Context(), mint)
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			fail(c, http.StatusNotFound, "token not found")
			return
		}
		fail(c, http.StatusInternalServerError, "failed to read token")
		return
	}

	if s.detail != nil && missingLinks(rec.Metadata) {
		if detail, err := s.detail.Fetch(c.Request.Context(), mint); err == nil {
			mergeLinks(rec, detail)
		} else {
			s.log.WithError(err).WithField("mint", mint).Debug("detail lookup failed")
		}
	}

	ok(c, view.Item{
		Record:    rec,
		Score:     score.Quality(rec),
		Risk:      score.Risk(rec),
		Favorited: s.watchlist.URIs()[rec.URI],
	})
}

// getTokenPrices serves the mint's rolling price window, oldest first.
func (s *Server) getTokenPrices(c *gin.Context) {
	mint := c.Param("mint")

	prices, err := s.prices.Get(c.Request.Context(), mint)
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			fail(c, http.StatusNotFound, "no prices for mint")
			return
		}
		fail(c, http.StatusInternalServerError, "failed to read prices")
		return
	}

	ok(c, gin.H{"mint": mint, "prices": prices})
}

func missingLinks(m *domain.TokenMetadata) bool {
	return m == nil || (m.Website == "" && m.Telegram == "" && m.Twitter == "")
}

func mergeLinks(rec *domain.TokenRecord, detail *domain.TokenMetadata) {
	if detail == nil {
		return
	}
	if rec.Metadata == nil {
		rec.Metadata = &domain.TokenMetadata{}
	}
	if rec.Metadata.Website == "" {
		rec.Metadata.Website = detail.Website
	}
	if rec.Metadata.Telegram == "" {
		rec.Metadata.Telegram = detail.Telegram
	}
	if rec.Metadata.Twitter == "" {
		rec.Metadata.Twitter = detail.Twitter
	}
}

// parseViewQuery builds a ViewQuery from request parameters, rejecting
// values outside the allowed enums.
func parseViewQuery(c *gin.Context) (domain.ViewQuery, error) {
	q := domain.DefaultViewQuery()

	q.Search = c.Query("search")

	if v := c.Query("field"); v != "" {
		f := domain.FilterField(v)
		if !f.IsValid() {
			return q, errors.New("field must be name or symbol")
		}
		q.FilterField = f
	}
	if v := c.Query("sortBy"); v != "" {
		k := domain.SortKey(v)
		if !k.IsValid() {
			return q, errors.New("invalid sortBy")
		}
		q.SortBy = k
	}
	if v := c.Query("sortDir"); v != "" {
		d := domain.SortDirection(v)
		if !d.IsValid() {
			return q, errors.New("sortDir must be asc or desc")
		}
		q.SortDir = d
	}

	var err error
	if q.MinMarketCap, err = floatQuery(c, "minMarketCap"); err != nil {
		return q, err
	}
	if q.MaxMarketCap, err = floatQuery(c, "maxMarketCap"); err != nil {
		return q, err
	}
	if q.MinInitialBuy, err = floatQuery(c, "minInitialBuy"); err != nil {
		return q, err
	}
	if q.MaxInitialBuy, err = floatQuery(c, "maxInitialBuy"); err != nil {
		return q, err
	}

	if v := c.Query("page"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n < 1 {
			return q, errors.New("page must be a positive integer")
		}
		q.Page = n
	}

	return q, nil
}

func floatQuery(c *gin.Context, key string) (*float64, error) {
	v := c.Query(key)
	if v == "" {
		return nil, nil
	}
	f, err := strconv.ParseFloat(v, 64)
	if err != nil {
		return nil, errors.New(key + " must be a number")
	}
	return &f, nil
}
