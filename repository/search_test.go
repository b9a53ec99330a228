package repository

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

func TestSearchPattern(t *testing.T) {
	tests := []struct {
		name   string
		search string
		want   string
	}{
		{"empty", "", ""},
		{"single word", "shirt", "(shirt)"},
		{"spaces", "blue shirt", "(blue)|(shirt)"},
		{"hyphens", "t-shirt", "(t)|(shirt)"},
		{"spaces and hyphens", "git push--force", "(git)|(push)|(force)"},
		{"blank pieces dropped", "  css  ", "(css)"},
		{"metacharacters quoted", "c++ node.js", `(c\+\+)|(node\.js)`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, SearchPattern(tt.search))
		})
	}
}

func TestSearchFilter(t *testing.T) {
	assert.Nil(t, SearchFilter("", []string{"name"}))
	assert.Nil(t, SearchFilter("shirt", nil))

	f := SearchFilter("red-hat", []string{"name", "tags"})
	require.NotNil(t, f)

	or, ok := f["$or"].(bson.A)
	require.True(t, ok)
	require.Len(t, or, 2)
	assert.Equal(t, bson.M{"name": primitive.Regex{Pattern: "(red)|(hat)", Options: "i"}}, or[0])
	assert.Equal(t, bson.M{"tags": primitive.Regex{Pattern: "(red)|(hat)", Options: "i"}}, or[1])
}

func TestAnd(t *testing.T) {
	assert.Equal(t, bson.M{}, and(nil, bson.M{}))
	assert.Equal(t, bson.M{"a": 1}, and(nil, bson.M{"a": 1}))
	assert.Equal(t, bson.M{"$and": bson.A{bson.M{"a": 1}, bson.M{"b": 2}}}, and(bson.M{"a": 1}, nil, bson.M{"b": 2}))
}
