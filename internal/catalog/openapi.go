package catalog

import (
	"net/http"

	"github.com/getkin/kin-openapi/openapi3"
)

const apiVersion = "1.0"

// APIDocument describes the product routes served by Server.Routes.
func APIDocument() *openapi3.T {
	idParam := &openapi3.ParameterRef{Value: openapi3.NewPathParameter("id").
		WithDescription("Specify the ProductId").
		WithSchema(openapi3.NewInt64Schema().WithMin(0))}

	nameModel := openapi3.NewObjectSchema().
		WithProperty("name", openapi3.NewStringSchema().WithMinLength(1))
	nameModel.Description = "Name of the Product"
	nameModel.Required = []string{"name"}

	productsModel := openapi3.NewObjectSchema().
		WithProperty("products", openapi3.NewObjectSchema().
			WithAdditionalProperties(openapi3.NewStringSchema()))

	detailModel := openapi3.NewObjectSchema().
		WithProperty("status", openapi3.NewStringSchema()).
		WithProperty("name", openapi3.NewStringSchema())

	failureModel := openapi3.NewObjectSchema().
		WithProperty("message", openapi3.NewStringSchema()).
		WithProperty("status", openapi3.NewStringSchema()).
		WithProperty("statusCode", openapi3.NewStringSchema()).
		WithProperty("request_id", openapi3.NewStringSchema())

	list := &openapi3.Operation{
		OperationID: "listProducts",
		Summary:     "List of products",
		Tags:        []string{"products"},
		Responses: responses(
			jsonResponse(http.StatusOK, "OK", productsModel),
			jsonResponse(http.StatusServiceUnavailable, "Store unavailable", failureModel),
			jsonResponse(http.StatusInternalServerError, "General Error", failureModel),
		),
	}

	ping := &openapi3.Operation{
		OperationID: "ping",
		Summary:     "Liveness check",
		Tags:        []string{"products"},
		Responses:   responses(jsonResponse(http.StatusOK, "OK", openapi3.NewStringSchema())),
	}

	get := &openapi3.Operation{
		OperationID: "getProduct",
		Summary:     "Product details",
		Tags:        []string{"products"},
		Parameters:  openapi3.Parameters{idParam},
		Responses: responses(
			jsonResponse(http.StatusOK, "OK", detailModel),
			jsonResponse(http.StatusBadRequest, "Invalid Argument", failureModel),
			jsonResponse(http.StatusNotFound, "Not Found", failureModel),
			jsonResponse(http.StatusServiceUnavailable, "Store unavailable", failureModel),
			jsonResponse(http.StatusInternalServerError, "General Error", failureModel),
		),
	}

	post := &openapi3.Operation{
		OperationID: "putProduct",
		Summary:     "Add or replace a product",
		Tags:        []string{"products"},
		Parameters:  openapi3.Parameters{idParam},
		RequestBody: &openapi3.RequestBodyRef{Value: openapi3.NewRequestBody().
			WithRequired(true).
			WithJSONSchema(nameModel)},
		Responses: responses(
			jsonResponse(http.StatusOK, "OK", detailModel),
			jsonResponse(http.StatusBadRequest, "Invalid Argument", failureModel),
			jsonResponse(http.StatusServiceUnavailable, "Store unavailable", failureModel),
			jsonResponse(http.StatusInternalServerError, "General Error", failureModel),
		),
	}

	return &openapi3.T{
		OpenAPI: "3.0.3",
		Info: &openapi3.Info{
			Title:       "Product Catalog",
			Description: "Complete dictionary of Products available in the Product Catalog",
			Version:     apiVersion,
		},
		Tags: openapi3.Tags{{Name: "products", Description: "Products from Product Catalog"}},
		Paths: openapi3.NewPaths(
			openapi3.WithPath("/products/", &openapi3.PathItem{Get: list}),
			openapi3.WithPath("/products/ping", &openapi3.PathItem{Get: ping}),
			openapi3.WithPath("/products/{id}", &openapi3.PathItem{Get: get, Post: post}),
		),
	}
}

type statusResponse struct {
	code int
	ref  *openapi3.ResponseRef
}

func jsonResponse(code int, desc string, schema *openapi3.Schema) statusResponse {
	resp := openapi3.NewResponse().
		WithDescription(desc).
		WithJSONSchema(schema)
	return statusResponse{code: code, ref: &openapi3.ResponseRef{Value: resp}}
}

func responses(rs ...statusResponse) *openapi3.Responses {
	opts := make([]openapi3.NewResponsesOption, 0, len(rs))
	for _, r := range rs {
		opts = append(opts, openapi3.WithStatus(r.code, r.ref))
	}
	return openapi3.NewResponses(opts...)
}
