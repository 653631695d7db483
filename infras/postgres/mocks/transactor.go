package mocks

import (
	"context"
	"sync"

	"campus/infras/postgres"

	"github.com/jmoiron/sqlx"
)

type transactorImpl struct {
	mu *sync.Mutex
}

// WithinTx implements postgres.Transactor. fn receives a nil transaction, so it suits
// repositories that are themselves mocked.
func (t *transactorImpl) WithinTx(_ context.Context, fn func(tx *sqlx.Tx) error) error {
	if t.mu != nil {
		t.mu.Lock()
		defer t.mu.Unlock()
	}

	return fn(nil)
}

func NewTransactor() postgres.Transactor {
	return &transactorImpl{}
}

// NewSerialTransactor runs units of work one at a time, the way a row lock serializes them.
func NewSerialTransactor() postgres.Transactor {
	return &transactorImpl{mu: &sync.Mutex{}}
}
