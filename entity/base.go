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

package entity

import (
	"context"
	"time"

	"github.com/uptrace/bun"
)

// Persistable lets a model decide whether Save inserts or updates.
type Persistable interface {
	IsNew() bool
}

// AuditColumns are never written by an UPDATE built by the repositories.
var AuditColumns = []string{"created_date", "created_by"}

// BaseTimeEntity records when a row was created and last modified.
type BaseTimeEntity struct {
	CreatedDate      time.Time `bun:"created_date,nullzero,notnull,default:current_timestamp" json:"createdDate"`
	LastModifiedDate time.Time `bun:"last_modified_date,nullzero" json:"lastModifiedDate"`
}

var _ bun.BeforeAppendModelHook = (*BaseTimeEntity)(nil)

func (e *BaseTimeEntity) BeforeAppendModel(_ context.Context, query bun.Query) error {
	now := time.Now()
	switch query.(type) {
	case *bun.InsertQuery:
		if e.CreatedDate.IsZero() {
			e.CreatedDate = now
		}
		e.LastModifiedDate = now
	case *bun.UpdateQuery:
		e.LastModifiedDate = now
	}
	return nil
}

// BaseEntity adds who created and last modified the row.
type BaseEntity struct {
	BaseTimeEntity
	CreatedBy      string `bun:"created_by" json:"createdBy"`
	LastModifiedBy string `bun:"last_modified_by" json:"lastModifiedBy"`
}

var _ bun.BeforeAppendModelHook = (*BaseEntity)(nil)

func (e *BaseEntity) BeforeAppendModel(ctx context.Context, query bun.Query) error {
	if err := e.BaseTimeEntity.BeforeAppendModel(ctx, query); err != nil {
		return err
	}
	switch query.(type) {
	case *bun.InsertQuery:
		auditor := AuditorFromContext(ctx)
		if e.CreatedBy == "" {
			e.CreatedBy = auditor
		}
		e.LastModifiedBy = auditor
	case *bun.UpdateQuery:
		e.LastModifiedBy = AuditorFromContext(ctx)
	}
	return nil
}
