package main

import (
	"errors"

	"github.com/Dynom/mxprobe/cmd/web/services"
	"github.com/Dynom/mxprobe/validator"
	"github.com/graphql-go/graphql"
)

type graphQLResult struct {
	Email  string `json:"email"`
	Valid  bool   `json:"valid"`
	Kind   string `json:"kind"`
	MXHost string `json:"mxHost"`
	Code   int    `json:"code"`
	Reason string `json:"reason"`
}

type graphQLBatch struct {
	Valid        []graphQLResult `json:"valid"`
	Invalid      []graphQLResult `json:"invalid"`
	ValidCount   int             `json:"validCount"`
	InvalidCount int             `json:"invalidCount"`
}

func newGraphQLResult(r validator.Result) graphQLResult {
	return graphQLResult{
		Email:  r.Address,
		Valid:  r.Valid,
		Kind:   r.Kind.String(),
		MXHost: r.MXHost,
		Code:   r.Code,
		Reason: r.Reason(),
	}
}

func NewGraphQLSchema(checkSvc *services.CheckSvc) (graphql.Schema, error) {
	resultType := graphql.NewObject(graphql.ObjectConfig{
		Name: "result",
		Fields: graphql.Fields{
			"email": &graphql.Field{
				Type: graphql.NewNonNull(graphql.String),
			},
			"valid": &graphql.Field{
				Description: "True when the mail exchange accepted the recipient. A catch-all exchange accepts everything.",
				Type:        graphql.NewNonNull(graphql.Boolean),
			},
			"kind": &graphql.Field{
				Description: "The reason of a rejection, \"none\" when valid.",
				Type:        graphql.NewNonNull(graphql.String),
			},
			"mxHost": &graphql.Field{
				Description: "The preferred mail exchange, when one was found.",
				Type:        graphql.String,
			},
			"code": &graphql.Field{
				Description: "The reply code to the recipient declaration, 0 when it wasn't reached.",
				Type:        graphql.Int,
			},
			"reason": &graphql.Field{
				Type: graphql.String,
			},
		},
	})

	batchType := graphql.NewObject(graphql.ObjectConfig{
		Name: "batch",
		Fields: graphql.Fields{
			"valid": &graphql.Field{
				Type: graphql.NewList(graphql.NewNonNull(resultType)),
			},
			"invalid": &graphql.Field{
				Type: graphql.NewList(graphql.NewNonNull(resultType)),
			},
			"validCount": &graphql.Field{
				Type: graphql.NewNonNull(graphql.Int),
			},
			"invalidCount": &graphql.Field{
				Type: graphql.NewNonNull(graphql.Int),
			},
		},
		Description: "Results partitioned on their verdict, every address appears exactly once.",
	})

	fields := graphql.Fields{
		"check": &graphql.Field{
			Type: resultType,
			Args: graphql.FieldConfigArgument{
				"email": &graphql.ArgumentConfig{
					Type:        graphql.NewNonNull(graphql.String),
					Description: "The e-mail address to check",
				},
			},
			Resolve: func(p graphql.ResolveParams) (interface{}, error) {
				email, ok := p.Args["email"].(string)
				if !ok {
					return nil, errors.New("missing required parameters")
				}

				result, err := checkSvc.HandleCheckRequest(p.Context, email)
				if err != nil {
					return nil, err
				}

				return newGraphQLResult(result), nil
			},
			Description: "Check a single address",
		},
		"validate": &graphql.Field{
			Type: batchType,
			Args: graphql.FieldConfigArgument{
				"emails": &graphql.ArgumentConfig{
					Type: graphql.NewNonNull(graphql.NewList(graphql.NewNonNull(graphql.String))),
				},
			},
			Resolve: func(p graphql.ResolveParams) (interface{}, error) {
				values, ok := p.Args["emails"].([]interface{})
				if !ok {
					return nil, errors.New("missing required parameters")
				}

				emails := make([]string, 0, len(values))
				for _, v := range values {
					if s, ok := v.(string); ok {
						emails = append(emails, s)
					}
				}

				rs, err := checkSvc.HandleBatchRequest(p.Context, emails)
				if err != nil {
					return nil, err
				}

				accepted, rejected := rs.Partition()
				res := graphQLBatch{
					Valid:        make([]graphQLResult, 0, len(accepted)),
					Invalid:      make([]graphQLResult, 0, len(rejected)),
					ValidCount:   len(accepted),
					InvalidCount: len(rejected),
				}

				for _, r := range accepted {
					res.Valid = append(res.Valid, newGraphQLResult(r))
				}

				for _, r := range rejected {
					res.Invalid = append(res.Invalid, newGraphQLResult(r))
				}

				return res, nil
			},
			Description: "Check a list of addresses",
		},
	}

	return graphql.NewSchema(graphql.SchemaConfig{
		Query: graphql.NewObject(graphql.ObjectConfig{
			Name:   "RootQuery",
			Fields: fields,
		}),
	})
}
