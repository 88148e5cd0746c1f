// Package graphql exposes a read-only catalog query surface at /graphql,
// mirroring the REST storefront for clients that prefer to shape their own
// responses. All mutations stay REST-only.
package graphql

import (
	"encoding/json"
	"net/http"

	"github.com/graphql-go/graphql"
	"github.com/shashiranjanraj/vastra/app/models"
	"github.com/shashiranjanraj/vastra/app/repositories"
	"github.com/shashiranjanraj/vastra/app/services"
	"github.com/shashiranjanraj/vastra/pkg/response"
	"gorm.io/gorm"
)

type resolver struct {
	products  *repositories.ProductRepository
	inventory *services.Inventory
}

// NewHandler builds the schema and returns the HTTP handler for /graphql.
func NewHandler(db *gorm.DB) (http.HandlerFunc, error) {
	res := &resolver{
		products:  repositories.NewProductRepository(db),
		inventory: services.NewInventory(db),
	}

	variantType := graphql.NewObject(graphql.ObjectConfig{
		Name: "Variant",
		Fields: graphql.Fields{
			"id":    &graphql.Field{Type: graphql.Int},
			"sku":   &graphql.Field{Type: graphql.String},
			"color": &graphql.Field{Type: graphql.String, Resolve: optString(func(v models.Variant) *string { return v.Color })},
			"size":  &graphql.Field{Type: graphql.String, Resolve: optString(func(v models.Variant) *string { return v.Size })},
			"title": &graphql.Field{
				Type: graphql.String,
				Resolve: func(p graphql.ResolveParams) (interface{}, error) {
					v := p.Source.(models.Variant)
					return v.Title(), nil
				},
			},
			"available": &graphql.Field{
				Type: graphql.Int,
				Resolve: func(p graphql.ResolveParams) (interface{}, error) {
					v := p.Source.(models.Variant)
					return res.inventory.AvailableStock(v.ID)
				},
			},
		},
	})

	productType := graphql.NewObject(graphql.ObjectConfig{
		Name: "Product",
		Fields: graphql.Fields{
			"id":          &graphql.Field{Type: graphql.Int},
			"title":       &graphql.Field{Type: graphql.String},
			"slug":        &graphql.Field{Type: graphql.String},
			"description": &graphql.Field{Type: graphql.String},
			"price": &graphql.Field{
				Type: graphql.Float,
				Resolve: func(p graphql.ResolveParams) (interface{}, error) {
					prod := p.Source.(models.Product)
					return services.UnitPriceFor(&prod, nil), nil
				},
			},
			"basePrice": &graphql.Field{
				Type: graphql.Float,
				Resolve: func(p graphql.ResolveParams) (interface{}, error) {
					return p.Source.(models.Product).BasePrice, nil
				},
			},
			"variants": &graphql.Field{
				Type: graphql.NewList(variantType),
				Resolve: func(p graphql.ResolveParams) (interface{}, error) {
					prod := p.Source.(models.Product)
					orderable := make([]models.Variant, 0, len(prod.Variants))
					for _, v := range prod.Variants {
						if v.Orderable() {
							orderable = append(orderable, v)
						}
					}
					return orderable, nil
				},
			},
		},
	})

	queryType := graphql.NewObject(graphql.ObjectConfig{
		Name: "Query",
		Fields: graphql.Fields{
			"products": &graphql.Field{
				Type: graphql.NewList(productType),
				Args: graphql.FieldConfigArgument{
					"search": &graphql.ArgumentConfig{Type: graphql.String},
					"page":   &graphql.ArgumentConfig{Type: graphql.Int, DefaultValue: 1},
				},
				Resolve: func(p graphql.ResolveParams) (interface{}, error) {
					search, _ := p.Args["search"].(string)
					page, _ := p.Args["page"].(int)
					products, _, err := res.products.List(repositories.ProductFilter{
						Search:     search,
						ActiveOnly: true,
						Page:       page,
						PerPage:    24,
					})
					return products, err
				},
			},
			"product": &graphql.Field{
				Type: productType,
				Args: graphql.FieldConfigArgument{
					"slug": &graphql.ArgumentConfig{Type: graphql.NewNonNull(graphql.String)},
				},
				Resolve: func(p graphql.ResolveParams) (interface{}, error) {
					product, err := res.products.FindBySlug(p.Args["slug"].(string))
					if err != nil {
						return nil, err
					}
					if !product.Active {
						return nil, nil
					}
					return *product, nil
				},
			},
		},
	})

	schema, err := graphql.NewSchema(graphql.SchemaConfig{Query: queryType})
	if err != nil {
		return nil, err
	}

	return func(w http.ResponseWriter, r *http.Request) {
		var body struct {
			Query     string                 `json:"query"`
			Variables map[string]interface{} `json:"variables"`
		}
		if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
			response.Error(w, http.StatusUnprocessableEntity, "invalid graphql request")
			return
		}

		result := graphql.Do(graphql.Params{
			Schema:         schema,
			RequestString:  body.Query,
			VariableValues: body.Variables,
			Context:        r.Context(),
		})

		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(result) //nolint:errcheck
	}, nil
}

func optString(get func(models.Variant) *string) graphql.FieldResolveFn {
	return func(p graphql.ResolveParams) (interface{}, error) {
		if s := get(p.Source.(models.Variant)); s != nil {
			return *s, nil
		}
		return nil, nil
	}
}
