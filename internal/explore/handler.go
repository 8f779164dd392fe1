package explore

import (
	"bytes"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"sort"
	"strings"

	"github.com/gin-gonic/gin"
	httperr "github.com/salesdash/explore/internal/core/errors"
	"github.com/salesdash/explore/internal/middleware"
)

// RegisterRoutes registers the explore query endpoint on the given router.
func (s *Service) RegisterRoutes(r gin.IRouter) {
	r.GET("/query", s.HandleQuery)
	r.POST("/query", s.HandleQuery)
}

// HandleQuery handles GET|POST /query.
// GET reads fields from the query string, POST from a JSON object body.
// format=csv in the query string selects the CSV export for either method.
func (s *Service) HandleQuery(c *gin.Context) {
	format := ParseFormat(c.Query("format"))

	var params Params
	if c.Request.Method == http.MethodPost {
		p, err := decodeBody(c.Request.Body)
		if err != nil {
			var tooLarge *http.MaxBytesError
			if errors.As(err, &tooLarge) {
				c.JSON(http.StatusRequestEntityTooLarge, httperr.ErrorResponse{Error: httperr.MsgBodyTooLarge})
				return
			}
			c.JSON(http.StatusBadRequest, httperr.ErrorResponse{Error: httperr.MsgInvalidBody})
			return
		}
		params = p
	} else {
		params = paramsFromQuery(c.Request.URL.Query())
	}

	res, err := s.Query(c.Request.Context(), params, format)
	if err != nil {
		if errors.Is(err, ErrInvalidQuery) {
			c.JSON(http.StatusBadRequest, httperr.ErrorResponse{Error: err.Error()})
			return
		}

		slog.Error("[Explore] Query failed",
			"request_id", middleware.RequestIDFromContext(c.Request.Context()),
			"error", err)
		c.JSON(http.StatusInternalServerError, httperr.ErrorResponse{Error: httperr.MsgInternal})
		return
	}

	if format == FormatCSV {
		var buf bytes.Buffer
		if err := WriteCSV(&buf, res); err != nil {
			slog.Error("[Explore] CSV render failed",
				"request_id", middleware.RequestIDFromContext(c.Request.Context()),
				"error", err)
			c.JSON(http.StatusInternalServerError, httperr.ErrorResponse{Error: httperr.MsgInternal})
			return
		}
		c.Header("Content-Disposition", "attachment; filename="+CSVFilename(s.nowFn()))
		c.Data(http.StatusOK, "text/csv", buf.Bytes())
		return
	}

	c.JSON(http.StatusOK, NewPage(res))
}

// decodeBody reads a JSON object. An empty body is an empty request.
func decodeBody(body io.Reader) (Params, error) {
	params := Params{}
	if body == nil {
		return params, nil
	}
	err := json.NewDecoder(body).Decode(&params)
	if errors.Is(err, io.EOF) {
		return Params{}, nil
	}
	if err != nil {
		return nil, err
	}
	return params, nil
}

// paramsFromQuery keeps single values as strings and repeated keys as lists.
// "measures[]=a&measures[]=b" and "measures=a&measures=b" both become lists.
// Keys are visited in sorted order, so a bare key merges ahead of its [] form.
func paramsFromQuery(values url.Values) Params {
	keys := make([]string, 0, len(values))
	for key := range values {
		keys = append(keys, key)
	}
	sort.Strings(keys)

	params := Params{}
	for _, key := range keys {
		vals := values[key]
		name := strings.TrimSuffix(key, "[]")
		if name == "format" {
			continue
		}

		existing, seen := params[name]
		if !seen && len(vals) == 1 && name == key {
			params[name] = vals[0]
			continue
		}

		var list []interface{}
		switch prev := existing.(type) {
		case []interface{}:
			list = prev
		case string:
			list = []interface{}{prev}
		}
		for _, v := range vals {
			list = append(list, v)
		}
		params[name] = list
	}
	return params
}
