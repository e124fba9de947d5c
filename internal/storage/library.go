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
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"path/filepath"
	"strings"
	"time"

	sq "github.com/Masterminds/squirrel"
	"github.com/google/uuid"

	"fountainfdx/internal/fountain"
	applog "fountainfdx/internal/log"
)

// Smart-type sections as stored in the smart_types table.
const (
	SectionCharacters  = "characters"
	SectionExtensions  = "extensions"
	SectionSceneIntros = "scene_intros"
	SectionLocations   = "locations"
	SectionTimesOfDay  = "times_of_day"
	SectionTransitions = "transitions"
)

// Sections lists every smart-type section in output order.
var Sections = []string{
	SectionCharacters, SectionExtensions, SectionSceneIntros,
	SectionLocations, SectionTimesOfDay, SectionTransitions,
}

// elementBatch bounds the rows per INSERT to stay under SQLite's variable limit.
const elementBatch = 500

var qb = sq.StatementBuilder.PlaceholderFormat(sq.Question)

// Script is one recorded screenplay.
type Script struct {
	ID          string
	Path        string
	Title       string
	Elements    int
	ConvertedAt time.Time
}

func smartValues(doc *fountain.Document) map[string][]string {
	return map[string][]string{
		SectionCharacters:  doc.Characters.Values(),
		SectionExtensions:  doc.Extensions.Values(),
		SectionSceneIntros: doc.SceneIntros.Values(),
		SectionLocations:   doc.Locations.Values(),
		SectionTimesOfDay:  doc.TimesOfDay.Values(),
		SectionTransitions: doc.Transitions.Values(),
	}
}

// Record stores doc under path, replacing anything previously recorded for
// the same file. Boneyard and page break elements are not indexed.
func (ix *Index) Record(ctx context.Context, path string, doc *fountain.Document) (Script, error) {
	l := applog.WithOperation(applog.WithComponent("storage"), "record")
	if abs, err := filepath.Abs(path); err == nil {
		path = abs
	}
	s := Script{
		ID:          uuid.New().String(),
		Path:        path,
		Elements:    len(doc.Elements),
		ConvertedAt: time.Now().UTC().Truncate(time.Second),
	}
	if runs, ok := doc.TitleDetail("Title"); ok {
		s.Title = strings.ReplaceAll(fountain.PlainText(runs), "\n", " ")
	}

	tx, err := ix.db.BeginTx(ctx, nil)
	if err != nil {
		return Script{}, fmt.Errorf("begin tx: %w", err)
	}
	if err := ix.record(ctx, tx, s, doc); err != nil {
		_ = tx.Rollback()
		return Script{}, err
	}
	if err := tx.Commit(); err != nil {
		return Script{}, fmt.Errorf("commit: %w", err)
	}
	l.Info("script recorded", slog.String("path", s.Path), slog.String("id", s.ID), slog.Int("elements", s.Elements))
	return s, nil
}

func (ix *Index) record(ctx context.Context, tx *sql.Tx, s Script, doc *fountain.Document) error {
	if err := deleteByPath(ctx, tx, s.Path); err != nil {
		return err
	}

	query, args, err := qb.Insert("scripts").
		Columns("id", "path", "title", "elements", "converted_at").
		Values(s.ID, s.Path, s.Title, s.Elements, s.ConvertedAt.Format(time.RFC3339)).
		ToSql()
	if err != nil {
		return fmt.Errorf("build script insert: %w", err)
	}
	if _, err := tx.ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("insert script: %w", err)
	}

	ins := qb.Insert("elements").Columns("script_id", "seq", "kind", "text")
	pending := 0
	flush := func() error {
		if pending == 0 {
			return nil
		}
		query, args, err := ins.ToSql()
		if err != nil {
			return fmt.Errorf("build element insert: %w", err)
		}
		if _, err := tx.ExecContext(ctx, query, args...); err != nil {
			return fmt.Errorf("insert elements: %w", err)
		}
		ins = qb.Insert("elements").Columns("script_id", "seq", "kind", "text")
		pending = 0
		return nil
	}
	for i, e := range doc.Elements {
		if e.Kind == fountain.Boneyard || e.Kind == fountain.PageBreak {
			continue
		}
		ins = ins.Values(s.ID, i, e.Kind.String(), e.Text())
		if pending++; pending == elementBatch {
			if err := flush(); err != nil {
				return err
			}
		}
	}
	if err := flush(); err != nil {
		return err
	}

	values := smartValues(doc)
	smart := qb.Insert("smart_types").Columns("script_id", "section", "value")
	n := 0
	for _, section := range Sections {
		for _, v := range values[section] {
			smart = smart.Values(s.ID, section, v)
			n++
		}
	}
	if n == 0 {
		return nil
	}
	query, args, err = smart.ToSql()
	if err != nil {
		return fmt.Errorf("build smart type insert: %w", err)
	}
	if _, err := tx.ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("insert smart types: %w", err)
	}
	return nil
}

// deleteByPath drops the script recorded for path with its rows. Elements
// are deleted explicitly so the FTS triggers see every row.
func deleteByPath(ctx context.Context, tx *sql.Tx, path string) error {
	var id string
	err := tx.QueryRowContext(ctx, `SELECT id FROM scripts WHERE path=?`, path).Scan(&id)
	if errors.Is(err, sql.ErrNoRows) {
		return nil
	}
	if err != nil {
		return fmt.Errorf("lookup script: %w", err)
	}
	for _, table := range []string{"elements", "smart_types"} {
		query, args, err := qb.Delete(table).Where(sq.Eq{"script_id": id}).ToSql()
		if err != nil {
			return fmt.Errorf("build delete: %w", err)
		}
		if _, err := tx.ExecContext(ctx, query, args...); err != nil {
			return fmt.Errorf("delete %s: %w", table, err)
		}
	}
	if _, err := tx.ExecContext(ctx, `DELETE FROM scripts WHERE id=?`, id); err != nil {
		return fmt.Errorf("delete script: %w", err)
	}
	return nil
}

// Remove forgets the script recorded for path. It reports whether one was found.
func (ix *Index) Remove(ctx context.Context, path string) (bool, error) {
	if abs, err := filepath.Abs(path); err == nil {
		path = abs
	}
	tx, err := ix.db.BeginTx(ctx, nil)
	if err != nil {
		return false, fmt.Errorf("begin tx: %w", err)
	}
	var n int
	if err := tx.QueryRowContext(ctx, `SELECT COUNT(*) FROM scripts WHERE path=?`, path).Scan(&n); err != nil {
		_ = tx.Rollback()
		return false, fmt.Errorf("lookup script: %w", err)
	}
	if err := deleteByPath(ctx, tx, path); err != nil {
		_ = tx.Rollback()
		return false, err
	}
	if err := tx.Commit(); err != nil {
		return false, fmt.Errorf("commit: %w", err)
	}
	return n > 0, nil
}

// Scripts lists recorded scripts, most recently converted first.
func (ix *Index) Scripts(ctx context.Context) ([]Script, error) {
	query, args, err := qb.Select("id", "path", "title", "elements", "converted_at").
		From("scripts").
		OrderBy("converted_at DESC", "path").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("build scripts query: %w", err)
	}
	rows, err := ix.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("scripts query: %w", err)
	}
	defer rows.Close()
	var out []Script
	for rows.Next() {
		var s Script
		var ts string
		if err := rows.Scan(&s.ID, &s.Path, &s.Title, &s.Elements, &ts); err != nil {
			return nil, fmt.Errorf("scan row: %w", err)
		}
		if t, err := time.Parse(time.RFC3339, ts); err == nil {
			s.ConvertedAt = t
		}
		out = append(out, s)
	}
	return out, rows.Err()
}

// Values returns the distinct smart-type values of section across the library, sorted.
func (ix *Index) Values(ctx context.Context, section string) ([]string, error) {
	query, args, err := qb.Select("DISTINCT value").
		From("smart_types").
		Where(sq.Eq{"section": section}).
		OrderBy("value").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("build values query: %w", err)
	}
	rows, err := ix.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("values query: %w", err)
	}
	defer rows.Close()
	var out []string
	for rows.Next() {
		var v string
		if err := rows.Scan(&v); err != nil {
			return nil, fmt.Errorf("scan row: %w", err)
		}
		out = append(out, v)
	}
	return out, rows.Err()
}
