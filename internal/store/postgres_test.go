// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Spendlog Contributors

package store

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/spendlog/spendlog/pkg/errutil"
)

func TestConnect_InvalidURL(t *testing.T) {
	_, err := Connect(context.Background(), "not a url")
	require.Error(t, err)
	errutil.AssertErrorCode(t, err, "STORE_CONNECT_FAILED")
}

func TestConnect_CancelledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := Connect(ctx, "postgres://localhost:1/spendlog_test")
	require.Error(t, err)
	errutil.AssertErrorCode(t, err, "STORE_PING_FAILED")
}
