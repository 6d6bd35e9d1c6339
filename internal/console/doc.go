// Copyright (c) matt-FFFFFF 2025. All rights reserved.
// SPDX-License-Identifier: MIT

// Package console answers two questions about the process's terminal, whether the cursor
// can be moved and whether color can be used, and whether the process runs in a
// non-interactive CI environment where progress must be appended rather than redrawn.
// It also provides the cursor control sequences used by the in-place renderers.
package console
