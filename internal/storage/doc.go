/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the specific language governing permissions and limitations under the License.
 */

// Package storage keeps a local library index of converted screenplays.
// Each conversion can record the parsed document into an embedded SQLite
// database: one row per script, its elements (full-text indexed with FTS5)
// and its smart-type values. The index is derived data and can be deleted at
// any time; it is rebuilt as scripts are converted again.
package storage
