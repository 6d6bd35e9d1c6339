// Copyright (c) matt-FFFFFF 2025. All rights reserved.
// SPDX-License-Identifier: MIT

// Package composite draws an overall progress bar above a bar for the current task.
//
// The master bar shows the sum of finished tasks and the running task. Each
// task gets a fresh child bar with its label on the line above it. In-place
// mode keeps the cursor on the child's bar line and hops two lines up to
// redraw the master; batch mode only draws the master.
package composite
