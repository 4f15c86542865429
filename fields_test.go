package graphkit

import (
	"context"
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/graphkit-go/graphkit/graphql"
)

func TestFields(t *testing.T) {
	type child struct {
		Name string
	}

	type obj struct {
		Int        int
		S0         string
		S1         string
		Tags       []string
		NoTags     []string
		Opt        *child
		MissingOpt *child
	}

	value := &obj{
		Int:  42,
		S1:   "foo",
		Tags: []string{"a", "b"},
		Opt:  &child{Name: "c"},
	}

	childType := &graphql.ObjectType{
		Name: "Child",
		Fields: map[string]*graphql.FieldDefinition{
			"name": NonEmptyString("Name"),
		},
	}

	query := &graphql.ObjectType{
		Name: "Query",
		Fields: map[string]*graphql.FieldDefinition{
			"obj": {
				Type: &graphql.ObjectType{
					Name: "Object",
					Fields: map[string]*graphql.FieldDefinition{
						"int":        NonNullField(graphql.IntType, "Int"),
						"s0":         NonEmptyString("S0"),
						"s1":         NonEmptyString("S1"),
						"tags":       NonEmptyList(graphql.StringType, "Tags"),
						"noTags":     NonEmptyList(graphql.StringType, "NoTags"),
						"opt":        OptionalField(childType, "Opt"),
						"missingOpt": OptionalField(childType, "MissingOpt"),
					},
				},
				Resolve: func(ctx *graphql.FieldContext) (interface{}, error) {
					return value, nil
				},
			},
		},
	}

	engine, err := NewEngine(&graphql.SchemaDefinition{Query: query}, nil)
	require.NoError(t, err)

	resp := engine.Execute(context.Background(), `{
		obj {
			int
			s0
			s1
			tags
			noTags
			opt { name }
			missingOpt { name }
		}
	}`, "", nil, nil)
	require.Empty(t, resp.Errors)
	require.NotNil(t, resp.Data)

	serialized, err := json.Marshal(*resp.Data)
	require.NoError(t, err)
	assert.JSONEq(t, `{
		"obj": {
			"int": 42,
			"s0": null,
			"s1": "foo",
			"tags": ["a", "b"],
			"noTags": null,
			"opt": {"name": "c"},
			"missingOpt": null
		}
	}`, string(serialized))
}
