/*
 * Copyright 2025 tomoncle.
 * Licensed under the Apache License, Version 2.0 (the "License");
 * you may not use this file except in compliance with the License.
 * You may obtain a copy of the License at
 *
 *     http://www.apache.org/licenses/LICENSE-2.0
 *
 * Unless required by applicable law or agreed to in writing, software
 * distributed under the License is distributed on an "AS IS" BASIS,
 * WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
 * See the License for the specific language governing permissions and
 * limitations under the License.
 */

package database

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestForeignKeyAlterSQL(t *testing.T) {
	fk := ForeignKey{
		Table:           "member",
		Column:          "team_id",
		ReferenceTable:  "team",
		ReferenceColumn: "team_id",
		OnDelete:        "SET NULL",
	}
	assert.Equal(t, "fk_member_team_id", fk.ConstraintName())
	assert.Equal(t,
		"ALTER TABLE member ADD CONSTRAINT fk_member_team_id FOREIGN KEY (team_id) REFERENCES team(team_id) ON DELETE SET NULL",
		fk.AlterSQL())

	fk.Name = "fk_custom"
	assert.Equal(t, "fk_custom", fk.ConstraintName())
}

func TestForeignKeysValidate(t *testing.T) {
	keys := ForeignKeys{
		{Table: "member", Column: "team_id", ReferenceTable: "team", ReferenceColumn: "team_id", OnDelete: "cascade"},
		{Table: "member", Column: "", ReferenceTable: "team", ReferenceColumn: "team_id", OnUpdate: "EXPLODE"},
	}
	err := keys.Validate()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "column is required")
	assert.Contains(t, err.Error(), `unknown on_update action "EXPLODE"`)
	assert.NoError(t, keys[:1].Validate())

	assert.Len(t, keys.ForTable("MEMBER"), 2)
	assert.Empty(t, keys.ForTable("item"))
}

func TestLoadAndWriteForeignKeys(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "foreign_keys.yaml")
	require.NoError(t, os.WriteFile(path, []byte(`
foreign_keys:
  - table: member
    column: team_id
    reference_table: team
    reference_column: team_id
    on_delete: SET NULL
`), 0o644))

	keys, err := LoadForeignKeys(path)
	require.NoError(t, err)
	require.Len(t, keys, 1)
	assert.Equal(t, "SET NULL", keys[0].OnDelete)
	assert.NoError(t, keys.Validate())

	out := filepath.Join(dir, "export", "fk.yaml")
	require.NoError(t, WriteForeignKeys(out, keys))
	again, err := LoadForeignKeys(out)
	require.NoError(t, err)
	require.Len(t, again, 1)
	assert.Equal(t, "member.team_id -> team.team_id", again[0].Description)
	again[0].Description = ""
	assert.Equal(t, keys, again)
}

func TestResolveForeignKeysFallsBack(t *testing.T) {
	RegisterForeignKey(ForeignKey{Table: "fallback_child", Column: "parent_id", ReferenceTable: "fallback_parent", ReferenceColumn: "id"})

	keys := ResolveForeignKeys(filepath.Join(t.TempDir(), "missing.yaml"), nil)
	assert.NotEmpty(t, keys.ForTable("fallback_child"))
	assert.NotEmpty(t, ResolveForeignKeys("", nil).ForTable("fallback_child"))

	_, err := LoadForeignKeys(filepath.Join(t.TempDir(), "missing.yaml"))
	assert.Error(t, err)
}
