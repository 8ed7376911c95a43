// Copyright 2025 The rankjump Authors. All rights reserved.
// Use of this source code is governed by an MIT-style
// license that can be found in the LICENSE file.

/*
Package main implements the rankjump terminal client, IPC server and HTTP API.

rankjump shows the daily top-played Steam games for a chosen date. While a
list is on screen, typing narrows it to up to eight suggestions by
case-insensitive substring match, and picking one scrolls the list to that
game's row and highlights it.

# Usage

Browse today's list interactively:

	rankjump

Browse another date with debug logs:

	rankjump --date 2025-11-20 -d

Inside the session, plain text searches and commands start with ':'

	> dota
	  #1  Dota 2 (rank 2)
	  #2  Dota Underlords (rank 57)
	> #2
	> :date 2025-11-19
	> :quit

Print one day's list and exit:

	rankjump fetch 2025-11-20

# Server Mode

	rankjump serve

serves msgpack requests on stdin/stdout for editor and UI front ends:

	{"id": "1", "action": "load", "date": "2025-11-20"}
	{"id": "2", "action": "suggest", "q": "al"}
	{"id": "3", "action": "select", "entry": "570"}

and

	rankjump http --addr 127.0.0.1:8087

serves the same operations as JSON over HTTP. See package server for the
message shapes.

# Search Modes

	--mode local   match over the loaded list only (default)
	--mode remote  ask the ranking service's search endpoint
	--mode hybrid  remote first, the loaded list when that fails or finds nothing

# Configuration

Settings live in a TOML file under the user config dir, created with
defaults on first run:

	[api]
	base_url = "https://steamrank-backend.onrender.com/api"
	timeout_ms = 15000

	[search]
	mode = "local"
	max_suggestions = 8

	[view]
	height = 15
	scroll_frames = 6

Flags override the file, and every flag can be set from the environment
with a RANKJUMP_ prefix, e.g. RANKJUMP_MODE=hybrid or RANKJUMP_API=http://...
*/
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/charmbracelet/log"
)

const (
	Version = "0.1.0"
	AppName = "rankjump"
	gh      = "https://github.com/bastiangx/rankjump"
)

// sigContext is cancelled on the first interrupt; a second one exits at once.
func sigContext() (context.Context, context.CancelFunc) {
	ctx, cancel := context.WithCancel(context.Background())
	c := make(chan os.Signal, 2)
	signal.Notify(c, os.Interrupt, syscall.SIGTERM)

	go func() {
		<-c
		fmt.Fprintf(os.Stderr, "\nExiting...\n")
		cancel()
		<-c
		os.Exit(1)
	}()
	return ctx, cancel
}

func main() {
	ctx, cancel := sigContext()
	defer cancel()

	if err := newRootCmd(&options{}).ExecuteContext(ctx); err != nil {
		log.Error(err)
		cancel()
		os.Exit(1)
	}
}
