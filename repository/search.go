package repository

import (
	"regexp"
	"strings"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// SearchPattern turns a free-text query into an alternation of its words.
// The query is split on spaces, then each word on hyphens, so "t-shirt blue"
// becomes "(t)|(shirt)|(blue)". Words are matched literally.
func SearchPattern(search string) string {
	var parts []string
	for _, word := range strings.Split(search, " ") {
		for _, piece := range strings.Split(word, "-") {
			if piece == "" {
				continue
			}
			parts = append(parts, "("+regexp.QuoteMeta(piece)+")")
		}
	}
	return strings.Join(parts, "|")
}

// SearchFilter ORs a case-insensitive match of the search pattern across fields.
// It returns nil when there is nothing to search for.
func SearchFilter(search string, fields []string) bson.M {
	pattern := SearchPattern(search)
	if pattern == "" || len(fields) == 0 {
		return nil
	}

	or := make(bson.A, 0, len(fields))
	for _, field := range fields {
		or = append(or, bson.M{field: primitive.Regex{Pattern: pattern, Options: "i"}})
	}
	return bson.M{"$or": or}
}

// and combines the non-empty filters
func and(filters ...bson.M) bson.M {
	var parts bson.A
	for _, f := range filters {
		if len(f) > 0 {
			parts = append(parts, f)
		}
	}

	switch len(parts) {
	case 0:
		return bson.M{}
	case 1:
		return parts[0].(bson.M)
	}
	return bson.M{"$and": parts}
}
