package api

import (
	"context"
	"fmt"
	"net/http"

	"riskgraph/internal/domain"
	"riskgraph/internal/logger"
	"riskgraph/internal/render"

	"github.com/gin-gonic/gin"
)

type GenerateGraphsRequest = domain.GraphRequest

type GenerateGraphsResponse = domain.GraphResponse

func (m ApiHandler) requestContext(c *gin.Context) context.Context {
	ctx := logger.WithLogger(c.Request.Context(), logger.FromContext(c))
	if m.Profile || c.Query("profile") == "true" {
		ctx = domain.WithPerformanceProfile(ctx, domain.NewPerformanceProfile())
	}
	return ctx
}

func bindGraphRequest(c *gin.Context) (*GenerateGraphsRequest, error) {
	var requestBody GenerateGraphsRequest
	if err := c.ShouldBindJSON(&requestBody); err != nil {
		return nil, domain.ValidationError{Field: "body", Reason: fmt.Sprintf("malformed request body: %v", err)}
	}
	return &requestBody, nil
}

func (m ApiHandler) generateGraphs(c *gin.Context) {
	requestBody, err := bindGraphRequest(c)
	if err != nil {
		returnDomainError(err, c)
		return
	}

	response, err := m.GraphService.GenerateGraphs(m.requestContext(c), *requestBody)
	if err != nil {
		returnDomainError(err, c)
		return
	}

	c.JSON(http.StatusOK, response)
}

// renderChart runs the same request but answers with a PNG of one graph
func (m ApiHandler) renderChart(c *gin.Context) {
	graphType := domain.GraphType(c.Param("graphType"))
	if !graphType.IsImplemented() {
		returnErrorJsonCode(domain.ValidationError{Field: "graphType", Reason: fmt.Sprintf("no chart for graph type %q", graphType)}, c, http.StatusBadRequest)
		return
	}

	requestBody, err := bindGraphRequest(c)
	if err != nil {
		returnDomainError(err, c)
		return
	}
	requestBody.GraphTypes = []domain.GraphType{graphType}

	response, err := m.GraphService.GenerateGraphs(m.requestContext(c), *requestBody)
	if err != nil {
		returnDomainError(err, c)
		return
	}
	for _, graphErr := range response.Metadata.Errors {
		returnErrorJsonCode(fmt.Errorf("%s could not be generated: %s", graphErr.GraphType, graphErr.Message), c, http.StatusUnprocessableEntity)
		return
	}

	charts, err := render.Charts(*response)
	if err != nil {
		returnErrorJson(err, c)
		return
	}
	chart, ok := charts[graphType]
	if !ok {
		returnErrorJsonCode(fmt.Errorf("no chart available for %s", graphType), c, http.StatusNotFound)
		return
	}

	c.Data(http.StatusOK, "image/png", chart)
}
