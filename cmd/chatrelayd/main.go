/*
   Copyright (c) 2023, btnmasher
   All rights reserved.
   Use of this source code is governed by a BSD-style
   license that can be found in the LICENSE file.
*/

package main

import (
	"bufio"
	"fmt"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/sourcegraph/conc"

	relay "github.com/smartychat/relay"

	"github.com/sirupsen/logrus"
)

func main() {
	wg := conc.NewWaitGroup()
	defer wg.Wait()

	logger := logrus.New()
	log := logger.WithField("component", "main")

	jid, password, err := readCredentials("chatrelay.cred")
	if err != nil {
		log.Fatal(fmt.Errorf("failed to read credential file: %w", err))
	}

	client, roster := newStubTransport(jid, password, logger)

	engine := relay.NewEngine(
		relay.WithClient(client),
		relay.WithRoster(roster),
		relay.WithLogger(logger),
		relay.WithStateFile("chatrelay.state"),
		relay.WithSaveInterval(relay.DefaultSaveInterval),
		relay.WithBatchInterval(relay.DefaultBatchInterval),
		// relay.WithStyledLogging(), // alternative formatter for interactive terminals
	)

	if err := engine.LoadState(); err != nil {
		log.Fatal(fmt.Errorf("failed to load persisted state: %w", err))
	}
	log.WithField("path", engine.StateFilePath()).Info("loaded persisted state")

	wg.Go(engine.Run)

	killSignals := make(chan os.Signal, 1)
	signal.Notify(killSignals, syscall.SIGINT, syscall.SIGTERM)

	sig := <-killSignals
	log.Infof("shutting down, received signal: %s", sig)
	engine.Shutdown()
	os.Exit(0)
}

// readCredentials parses the single-line "jid password" credential
// file format.
func readCredentials(path string) (jid, password string, err error) {
	f, err := os.Open(path)
	if err != nil {
		return "", "", err
	}
	defer f.Close()

	scanner := bufio.NewScanner(f)
	if !scanner.Scan() {
		return "", "", fmt.Errorf("credential file is empty")
	}
	fields := strings.Fields(scanner.Text())
	if len(fields) != 2 {
		return "", "", fmt.Errorf("expected \"jid password\", got %d fields", len(fields))
	}
	return fields[0], fields[1], nil
}
