//go:build unit

package api_test

import (
	"errors"
	"net/http"
	"testing"
	"time"

	"hub-route-engine/internal/domain/route"
	"hub-route-engine/internal/handler/api"
	resdto "hub-route-engine/internal/handler/dto/response"
	"hub-route-engine/internal/usecase/queries"
	"hub-route-engine/tests/common/httptest"
	queriesmock "hub-route-engine/tests/mock/queries"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/suite"
	"go.uber.org/mock/gomock"
)

type FeasibilityHandlerTestSuite struct {
	suite.Suite
	router      *gin.Engine
	mockCtrl    *gomock.Controller
	mockQueries *queriesmock.MockFeasibilityQueries
	handler     *api.FeasibilityHandler
}

func (s *FeasibilityHandlerTestSuite) SetupTest() {
	gin.SetMode(gin.TestMode)
	s.router = gin.New()

	s.mockCtrl = gomock.NewController(s.T())
	s.mockQueries = queriesmock.NewMockFeasibilityQueries(s.mockCtrl)
	s.handler = api.NewFeasibilityHandler(s.mockQueries)

	s.router.GET("/feasibility", s.handler.Plan)
}

func (s *FeasibilityHandlerTestSuite) TearDownTest() {
	s.mockCtrl.Finish()
}

func TestFeasibilityHandlerSuite(t *testing.T) {
	suite.Run(t, new(FeasibilityHandlerTestSuite))
}

func (s *FeasibilityHandlerTestSuite) TestPlan() {
	shipmentID := uuid.New()
	hubID := uuid.New()
	url := "/feasibility?shipment_id=" + shipmentID.String() + "&hub1=" + hubID.String() + "&day=2026-09-02"

	s.Run("success: returns 200 OK with costed options", func() {
		result := &queries.FeasibilityResult{
			ShipmentID: shipmentID,
			Tier:       route.Tier2,
			Day:        time.Date(2026, 9, 2, 0, 0, 0, 0, time.UTC),
			Options: []route.Option{
				{
					Model: route.ModelDHLFull,
					Legs: []route.Leg{
						{From: "client", To: hubID.String(), Mode: route.LegDHL, Cost: decimal.RequireFromString("62.00")},
						{From: hubID.String(), To: "client", Mode: route.LegDHL, Cost: decimal.RequireFromString("62.00")},
					},
					HubFeeTotal: decimal.RequireFromString("128.50"),
					Transport:   decimal.RequireFromString("124.00"),
					Margin:      decimal.RequireFromString("25.25"),
					TotalCost:   decimal.RequireFromString("277.75"),
					Feasible:    true,
				},
			},
			GeneratedAt: time.Date(2026, 9, 1, 12, 0, 0, 0, time.UTC),
		}
		s.mockQueries.EXPECT().Plan(gomock.Any(), gomock.Any()).
			DoAndReturn(func(_ any, in queries.FeasibilityInput) (*queries.FeasibilityResult, error) {
				s.Equal(shipmentID, in.ShipmentID)
				s.Equal(hubID, in.Hub1)
				s.Nil(in.Hub2)
				s.Equal(result.Day, in.Day)
				return result, nil
			}).Times(1)

		rec := httptest.PerformRequest(s.T(), s.router, http.MethodGet, url, nil, "")

		var body resdto.FeasibilityResponse
		httptest.AssertSuccessResponse(s.T(), rec, http.StatusOK, &body)
		s.Equal(2, body.Tier)
		s.Equal("2026-09-02", body.Day)
		s.Require().Len(body.Options, 1)
		s.Equal("dhl_full", body.Options[0].ServiceModel)
		s.Equal("277.75", body.Options[0].TotalCost)
		s.True(body.Options[0].Feasible)
	})

	s.Run("error: 400 on missing query parameters", func() {
		rec := httptest.PerformRequest(s.T(), s.router, http.MethodGet, "/feasibility?hub1="+hubID.String(), nil, "")
		httptest.AssertErrorResponse(s.T(), rec, http.StatusBadRequest, "")
	})

	s.Run("error: 400 on malformed day", func() {
		badURL := "/feasibility?shipment_id=" + shipmentID.String() + "&hub1=" + hubID.String() + "&day=tomorrow"
		rec := httptest.PerformRequest(s.T(), s.router, http.MethodGet, badURL, nil, "")
		httptest.AssertErrorResponse(s.T(), rec, http.StatusBadRequest, "Invalid day format")
	})

	s.Run("error: maps usecase errors to proper statuses", func() {
		testCases := []struct {
			name           string
			queriesError   error
			expectedStatus int
			expectedMsg    string
		}{
			{
				name:           "shipment not found",
				queriesError:   queries.ErrShipmentNotFound,
				expectedStatus: http.StatusNotFound,
				expectedMsg:    "Shipment not found",
			},
			{
				name:           "hub not found",
				queriesError:   queries.ErrHubNotFound,
				expectedStatus: http.StatusNotFound,
				expectedMsg:    "Hub not found",
			},
			{
				name:           "tier without options",
				queriesError:   queries.ErrTierWithoutOptions,
				expectedStatus: http.StatusBadRequest,
				expectedMsg:    "routes directly",
			},
			{
				name:           "internal server error",
				queriesError:   errors.New("database error"),
				expectedStatus: http.StatusInternalServerError,
				expectedMsg:    "Internal server error",
			},
		}

		for _, tc := range testCases {
			s.Run(tc.name, func() {
				s.mockQueries.EXPECT().Plan(gomock.Any(), gomock.Any()).
					Return(nil, tc.queriesError).Times(1)

				rec := httptest.PerformRequest(s.T(), s.router, http.MethodGet, url, nil, "")
				httptest.AssertErrorResponse(s.T(), rec, tc.expectedStatus, tc.expectedMsg)
			})
		}
	})
}
