/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the specific language governing permissions and limitations under the License.
 */

package storage

import (
	"context"
	"fmt"
	"strings"

	sq "github.com/Masterminds/squirrel"
)

// SearchQuery describes a library search.
// Text uses SQLite FTS5 syntax (simple terms, phrases in quotes, AND/OR/NOT);
// wrap free user input with Phrase. When Text is empty every element matches
// and only the filters apply.
// Kinds restricts to element kinds such as "dialogue" or "scene_heading".
// Script keeps only scripts whose path contains the given substring.
// Limit/Offset implement pagination; a zero Limit means 100.
type SearchQuery struct {
	Text   string
	Kinds  []string
	Script string
	Limit  int
	Offset int
}

// SearchResult is a single matching element.
type SearchResult struct {
	Path  string
	Title string
	Seq   int
	Kind  string
	Text  string
}

// Phrase quotes s as a single FTS5 phrase.
func Phrase(s string) string {
	return `"` + strings.ReplaceAll(s, `"`, `""`) + `"`
}

// Search finds elements across all recorded scripts, ordered by script path
// and position in the script.
func (ix *Index) Search(ctx context.Context, q SearchQuery) ([]SearchResult, error) {
	sel := qb.Select("s.path", "s.title", "e.seq", "e.kind", "e.text")
	if strings.TrimSpace(q.Text) != "" {
		sel = sel.From("fts_elements").
			Join("elements e ON fts_elements.rowid = e.id").
			Where("fts_elements MATCH ?", q.Text)
	} else {
		sel = sel.From("elements e")
	}
	sel = sel.Join("scripts s ON s.id = e.script_id")
	if len(q.Kinds) > 0 {
		sel = sel.Where(sq.Eq{"e.kind": q.Kinds})
	}
	if s := strings.TrimSpace(q.Script); s != "" {
		sel = sel.Where(sq.Like{"s.path": likeContains(s)})
	}
	limit := q.Limit
	if limit <= 0 {
		limit = 100
	}
	offset := q.Offset
	if offset < 0 {
		offset = 0
	}
	sel = sel.OrderBy("s.path", "e.seq").Limit(uint64(limit)).Offset(uint64(offset))

	query, args, err := sel.ToSql()
	if err != nil {
		return nil, fmt.Errorf("build search query: %w", err)
	}
	rows, err := ix.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("search query: %w", err)
	}
	defer rows.Close()
	var out []SearchResult
	for rows.Next() {
		var r SearchResult
		if err := rows.Scan(&r.Path, &r.Title, &r.Seq, &r.Kind, &r.Text); err != nil {
			return nil, fmt.Errorf("scan row: %w", err)
		}
		out = append(out, r)
	}
	return out, rows.Err()
}

func likeContains(s string) string { return "%" + s + "%" }
