package handlers_test

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"

	"github.com/skpatro/tallystock/internal/dto"
	"github.com/skpatro/tallystock/internal/store"
)

func (s *HandlerTestSuite) postRate(item string, payload []byte) *httptest.ResponseRecorder {
	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/api/v1/rates/"+item, bytes.NewReader(payload))
	req.Header.Set("Content-Type", "application/json")
	s.router.ServeHTTP(w, req)
	return w
}

func (s *HandlerTestSuite) TestPostAndGetRate() {
	w := s.postRate("WIDGET", []byte(`{"pkgRate": 240, "unitRate": 20}`))

	s.Require().Equal(http.StatusOK, w.Code)
	var saved dto.RateOverrideResponse
	s.Require().NoError(json.Unmarshal(w.Body.Bytes(), &saved))
	s.Equal("WIDGET", saved.ItemName)
	s.Require().NotNil(saved.Override.PkgRate)
	s.Equal(240.0, *saved.Override.PkgRate)
	s.Empty(saved.Warnings)

	w = s.get("/api/v1/rates/WIDGET")
	s.Equal(http.StatusOK, w.Code)
	var got dto.RateOverrideResponse
	s.Require().NoError(json.Unmarshal(w.Body.Bytes(), &got))
	s.Require().NotNil(got.Override.UnitRate)
	s.Equal(20.0, *got.Override.UnitRate)
}

func (s *HandlerTestSuite) TestPostRateWarnsOnLargeChange() {
	w := s.postRate("WIDGET", []byte(`{"unitRate": 100}`))
	s.Require().Equal(http.StatusOK, w.Code)

	w = s.postRate("WIDGET", []byte(`{"unitRate": 200}`))
	s.Require().Equal(http.StatusOK, w.Code)

	var saved dto.RateOverrideResponse
	s.Require().NoError(json.Unmarshal(w.Body.Bytes(), &saved))
	s.Require().Len(saved.Warnings, 1)
	s.Contains(saved.Warnings[0], "unitRate")
	s.Require().NotNil(saved.Override.UnitRate)
	s.Equal(200.0, *saved.Override.UnitRate, "flagged change still saves")
}

func (s *HandlerTestSuite) TestPostRateRejectsNegative() {
	w := s.postRate("WIDGET", []byte(`{"unitRate": -1}`))
	s.Equal(http.StatusBadRequest, w.Code)
}

func (s *HandlerTestSuite) TestPostRateRejectsEmptyBody() {
	w := s.postRate("WIDGET", []byte(`{}`))
	s.Equal(http.StatusBadRequest, w.Code)
}

func (s *HandlerTestSuite) TestGetRateMissingIsEmpty() {
	w := s.get("/api/v1/rates/UNKNOWN")
	s.Equal(http.StatusOK, w.Code)
	var got dto.RateOverrideResponse
	s.Require().NoError(json.Unmarshal(w.Body.Bytes(), &got))
	s.True(got.Override.IsEmpty())
}

func (s *HandlerTestSuite) TestDeleteRate() {
	w := s.postRate("WIDGET", []byte(`{"pkgRate": 120}`))
	s.Require().Equal(http.StatusOK, w.Code)

	req := httptest.NewRequest(http.MethodDelete, "/api/v1/rates/WIDGET", nil)
	w = httptest.NewRecorder()
	s.router.ServeHTTP(w, req)
	s.Equal(http.StatusNoContent, w.Code)

	req = httptest.NewRequest(http.MethodDelete, "/api/v1/rates/WIDGET", nil)
	w = httptest.NewRecorder()
	s.router.ServeHTTP(w, req)
	s.Equal(http.StatusNotFound, w.Code)
}

func (s *HandlerTestSuite) TestListRateChanges() {
	s.Require().Equal(http.StatusOK, s.postRate("A", []byte(`{"unitRate": 10}`)).Code)
	s.Require().Equal(http.StatusOK, s.postRate("B", []byte(`{"unitRate": 20}`)).Code)

	w := s.get("/api/v1/rates/log/changes")
	s.Equal(http.StatusOK, w.Code)
	var changes []store.RateChange
	s.Require().NoError(json.Unmarshal(w.Body.Bytes(), &changes))
	s.Require().Len(changes, 2)
	s.Equal("B", changes[0].Item, "newest first")
	s.Equal("A", changes[1].Item)
}
