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

package types

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseDirection(t *testing.T) {
	d, err := ParseDirection("DeSc")
	require.NoError(t, err)
	assert.Equal(t, DESC, d)

	d, err = ParseDirection("")
	require.NoError(t, err)
	assert.Equal(t, ASC, d)

	d, err = ParseDirection("sideways")
	assert.Error(t, err)
	assert.False(t, d.IsValid())
	assert.Equal(t, IllegalValue, d.Number())
	assert.Equal(t, IllegalName, d.String())
	assert.Equal(t, IllegalDesc, d.Desc())
}

func TestParseOrder(t *testing.T) {
	cases := []struct {
		in      string
		want    Order
		wantErr bool
	}{
		{in: "username", want: Order{Property: "username", Direction: ASC}},
		{in: "id,desc", want: Order{Property: "id", Direction: DESC}},
		{in: " age , ASC ", want: Order{Property: "age", Direction: ASC}},
		{in: ",desc", wantErr: true},
		{in: "id,up", wantErr: true},
		{in: "id,desc,extra", wantErr: true},
	}
	for _, tc := range cases {
		t.Run(tc.in, func(t *testing.T) {
			got, err := ParseOrder(tc.in)
			if tc.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tc.want, got)
		})
	}
}

func TestSortComposition(t *testing.T) {
	s := By(DESC, "id").And(By(ASC, "username"))
	require.Len(t, s.Orders, 2)
	assert.Equal(t, "id: DESC,username: ASC", s.String())
	assert.Equal(t, "UNSORTED", Unsorted().String())
	assert.Equal(t, "id,desc", s.Orders[0].String())
}

func TestDirectionText(t *testing.T) {
	var d Direction
	require.NoError(t, d.UnmarshalText([]byte("desc")))
	assert.Equal(t, DESC, d)
	text, err := d.MarshalText()
	require.NoError(t, err)
	assert.Equal(t, "DESC", string(text))
	assert.Error(t, d.UnmarshalText([]byte("nope")))
}
