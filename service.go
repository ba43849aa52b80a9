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

package datajpa

import (
	"context"
	"errors"
	"sync"

	"github.com/tomoncle/datajpa/database"
	"github.com/tomoncle/datajpa/repository"
	"github.com/tomoncle/datajpa/types"
	"github.com/uptrace/bun"
)

// ErrDatabaseNotInitialized is returned by services bound to the global
// database before database.InitDB has run.
var ErrDatabaseNotInitialized = errors.New("database not initialized")

// Service is a thin facade over the generic repository of T.
type Service[T any] interface {
	// Get returns repository.ErrNotFound when no entity has the id.
	Get(ctx context.Context, id any) (*T, error)

	Exists(ctx context.Context, id any) (bool, error)

	All(ctx context.Context) ([]*T, error)

	Count(ctx context.Context) (int64, error)

	List(ctx context.Context, filter *types.QueryFilter) ([]*T, error)

	Query(ctx context.Context, query string, args ...interface{}) ([]*T, error)

	Page(ctx context.Context, page *types.PageRequest) (*types.Page[T], error)

	PageBySpec(ctx context.Context, spec repository.Specification[T], page *types.PageRequest) (*types.Page[T], error)

	// Save inserts model when it is new and updates it otherwise.
	Save(ctx context.Context, model *T) (*T, error)

	// SaveAll saves every model in one transaction.
	SaveAll(ctx context.Context, model ...*T) error

	SaveOrUpdate(ctx context.Context, fields []string, duplicateKeys []string, model ...*T) error

	Delete(ctx context.Context, model *T) error

	DeleteByID(ctx context.Context, id any) error

	SaveWithTx(ctx context.Context, tx *bun.Tx, model ...*T) error

	UpdateWithTx(ctx context.Context, tx *bun.Tx, model *T) error

	DeleteWithTx(ctx context.Context, tx *bun.Tx, id any) error

	// Repository exposes the underlying repository for queries the facade
	// does not cover.
	Repository() (repository.Repository[T], error)
}

type baseServiceImpl[T any] struct {
	mu   sync.Mutex
	repo repository.Repository[T]
}

// NewService returns a Service bound to the global database. The binding
// happens on first use, so it may be created before database.InitDB.
func NewService[T any]() Service[T] {
	return &baseServiceImpl[T]{}
}

// NewServiceWithDB returns a Service bound to db.
func NewServiceWithDB[T any](db bun.IDB) Service[T] {
	return &baseServiceImpl[T]{repo: repository.NewRepository[T](db)}
}

func (s *baseServiceImpl[T]) Repository() (repository.Repository[T], error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.repo == nil {
		db := database.GetDB()
		if db == nil {
			return nil, ErrDatabaseNotInitialized
		}
		s.repo = repository.NewRepository[T](db)
	}
	return s.repo, nil
}

func (s *baseServiceImpl[T]) Get(ctx context.Context, id any) (*T, error) {
	repo, err := s.Repository()
	if err != nil {
		return nil, err
	}
	return repo.FindByID(ctx, id)
}

func (s *baseServiceImpl[T]) Exists(ctx context.Context, id any) (bool, error) {
	repo, err := s.Repository()
	if err != nil {
		return false, err
	}
	return repo.ExistsByID(ctx, id)
}

func (s *baseServiceImpl[T]) All(ctx context.Context) ([]*T, error) {
	repo, err := s.Repository()
	if err != nil {
		return nil, err
	}
	return repo.FindAll(ctx)
}

func (s *baseServiceImpl[T]) Count(ctx context.Context) (int64, error) {
	repo, err := s.Repository()
	if err != nil {
		return 0, err
	}
	return repo.Count(ctx)
}

func (s *baseServiceImpl[T]) List(ctx context.Context, filter *types.QueryFilter) ([]*T, error) {
	repo, err := s.Repository()
	if err != nil {
		return nil, err
	}
	return repo.List(ctx, filter)
}

func (s *baseServiceImpl[T]) Query(ctx context.Context, query string, args ...interface{}) ([]*T, error) {
	repo, err := s.Repository()
	if err != nil {
		return nil, err
	}
	return repo.Query(ctx, query, args...)
}

func (s *baseServiceImpl[T]) Page(ctx context.Context, page *types.PageRequest) (*types.Page[T], error) {
	repo, err := s.Repository()
	if err != nil {
		return nil, err
	}
	return repo.FindPage(ctx, page)
}

func (s *baseServiceImpl[T]) PageBySpec(ctx context.Context, spec repository.Specification[T], page *types.PageRequest) (*types.Page[T], error) {
	repo, err := s.Repository()
	if err != nil {
		return nil, err
	}
	return repo.FindPageBySpec(ctx, spec, page)
}

func (s *baseServiceImpl[T]) Save(ctx context.Context, model *T) (*T, error) {
	repo, err := s.Repository()
	if err != nil {
		return nil, err
	}
	return repo.Save(ctx, model)
}

func (s *baseServiceImpl[T]) SaveAll(ctx context.Context, model ...*T) error {
	repo, err := s.Repository()
	if err != nil {
		return err
	}
	_, err = repo.SaveAll(ctx, model...)
	return err
}

func (s *baseServiceImpl[T]) SaveOrUpdate(ctx context.Context, fields []string, duplicateKeys []string, model ...*T) error {
	repo, err := s.Repository()
	if err != nil {
		return err
	}
	return repo.Upsert(ctx, fields, duplicateKeys, model...)
}

func (s *baseServiceImpl[T]) Delete(ctx context.Context, model *T) error {
	repo, err := s.Repository()
	if err != nil {
		return err
	}
	return repo.Delete(ctx, model)
}

func (s *baseServiceImpl[T]) DeleteByID(ctx context.Context, id any) error {
	repo, err := s.Repository()
	if err != nil {
		return err
	}
	return repo.DeleteByID(ctx, id)
}

func (s *baseServiceImpl[T]) SaveWithTx(ctx context.Context, tx *bun.Tx, model ...*T) error {
	repo, err := s.Repository()
	if err != nil {
		return err
	}
	return repo.CreateWithTx(ctx, tx, model...)
}

func (s *baseServiceImpl[T]) UpdateWithTx(ctx context.Context, tx *bun.Tx, model *T) error {
	repo, err := s.Repository()
	if err != nil {
		return err
	}
	return repo.UpdateWithTx(ctx, tx, model)
}

func (s *baseServiceImpl[T]) DeleteWithTx(ctx context.Context, tx *bun.Tx, id any) error {
	repo, err := s.Repository()
	if err != nil {
		return err
	}
	return repo.DeleteWithTx(ctx, tx, id)
}
