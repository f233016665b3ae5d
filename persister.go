/*
   Copyright (c) 2023, btnmasher
   All rights reserved.

   Redistribution and use in source and binary forms, with or without modification, are permitted provided that
   the following conditions are met:

   1. Redistributions of source code must retain the above copyright notice, this list of conditions and the
      following disclaimer.

   2. Redistributions in binary form must reproduce the above copyright notice, this list of conditions and
      the following disclaimer in the documentation and/or other materials provided with the distribution.

   3. Neither the name of the copyright holder nor the names of its contributors may be used to endorse or
      promote products derived from this software without specific prior written permission.

   THIS SOFTWARE IS PROVIDED BY THE COPYRIGHT HOLDERS AND CONTRIBUTORS "AS IS" AND ANY EXPRESS OR IMPLIED
   WARRANTIES, INCLUDING, BUT NOT LIMITED TO, THE IMPLIED WARRANTIES OF MERCHANTABILITY AND FITNESS FOR A
   PARTICULAR PURPOSE ARE DISCLAIMED. IN NO EVENT SHALL THE COPYRIGHT HOLDER OR CONTRIBUTORS BE LIABLE FOR
   ANY DIRECT, INDIRECT, INCIDENTAL, SPECIAL, EXEMPLARY, OR CONSEQUENTIAL DAMAGES (INCLUDING, BUT NOT LIMITED
   TO, PROCUREMENT OF SUBSTITUTE GOODS OR SERVICES; LOSS OF USE, DATA, OR PROFITS; OR BUSINESS INTERRUPTION)
   HOWEVER CAUSED AND ON ANY THEORY OF LIABILITY, WHETHER IN CONTRACT, STRICT LIABILITY, OR TORT (INCLUDING
   NEGLIGENCE OR OTHERWISE) ARISING IN ANY WAY OUT OF THE USE OF THIS SOFTWARE, EVEN IF ADVISED OF THE
   POSSIBILITY OF SUCH DAMAGE.
*/

package relay

import (
	"os"
	"path/filepath"
	"time"

	"github.com/sirupsen/logrus"
)

// StatePersister is the background worker that writes a snapshot
// whenever the model changes, but no more often than saveInterval. It
// follows the same wait/sleep/act shape as the outbound batcher,
// waking on the engine's version condition instead of a fixed ticker.
type StatePersister struct {
	engine       *ChatEngine
	stateFile    string
	saveInterval time.Duration
	lastSaveTime time.Time

	log *logrus.Entry

	stop chan struct{}
	done chan struct{}
}

// NewStatePersister constructs a persister that snapshots engine to
// stateFile no more often than saveInterval.
func NewStatePersister(engine *ChatEngine, stateFile string, saveInterval time.Duration, log *logrus.Entry) *StatePersister {
	return &StatePersister{
		engine:       engine,
		stateFile:    stateFile,
		saveInterval: saveInterval,
		log:          log.WithField("component", "persister"),
		stop:         make(chan struct{}),
		done:         make(chan struct{}),
	}
}

// Run drives the persister's loop until Stop is called. Meant to be
// supervised by a conc.WaitGroup so a panic here is fatal to the
// process.
func (p *StatePersister) Run() {
	defer close(p.done)

	for {
		p.engine.stateMutex.Lock()
		for p.engine.currentVersion <= p.engine.savedVersion && !p.stopRequested() {
			p.engine.versionCond.Wait()
		}
		stopping := p.stopRequested()
		p.engine.stateMutex.Unlock()
		if stopping {
			return
		}

		sleep := p.sleepDuration()
		if sleep > 0 {
			time.Sleep(sleep)
		}

		p.saveOnce()
	}
}

// Stop signals the loop to exit after its current wait, and blocks
// until it has.
func (p *StatePersister) Stop() {
	select {
	case <-p.stop:
	default:
		close(p.stop)
	}
	p.engine.versionCond.Broadcast()
	<-p.done
}

func (p *StatePersister) stopRequested() bool {
	select {
	case <-p.stop:
		return true
	default:
		return false
	}
}

func (p *StatePersister) sleepDuration() time.Duration {
	elapsed := time.Since(p.lastSaveTime)
	if elapsed >= p.saveInterval {
		return 0
	}
	return p.saveInterval - elapsed
}

// saveOnce takes a snapshot if the version hasn't already been saved
// by a racing call, marks it saved, and writes it to disk.
func (p *StatePersister) saveOnce() {
	p.engine.stateMutex.Lock()
	if p.engine.currentVersion == p.engine.savedVersion {
		p.engine.stateMutex.Unlock()
		return
	}
	snap := p.engine.serialize()
	p.engine.savedVersion = p.engine.currentVersion
	p.engine.stateMutex.Unlock()

	p.lastSaveTime = time.Now()

	if err := p.writeSnapshot(snap); err != nil {
		p.log.WithError(err).Warn("failed to write state snapshot")
	}
}

// writeSnapshot encodes snap and writes it to stateFile via
// write-to-temp + atomic rename, mode 0600.
func (p *StatePersister) writeSnapshot(snap engineSnapshot) error {
	data, err := encodeSnapshot(snap)
	if err != nil {
		return err
	}

	tmpPath := p.stateFile + ".tmp"
	_ = os.Remove(tmpPath)

	f, err := os.OpenFile(tmpPath, os.O_WRONLY|os.O_CREATE|os.O_EXCL, 0600)
	if err != nil {
		return err
	}
	if _, err := f.Write(data); err != nil {
		f.Close()
		return err
	}
	if err := f.Close(); err != nil {
		return err
	}

	return os.Rename(tmpPath, p.stateFile)
}

// SaveStateIfChanged performs one save step synchronously. It is the
// shutdown path, invoked from the boot shim's signal handler.
func (e *ChatEngine) SaveStateIfChanged() {
	e.persister.saveOnce()
}

// LoadState reads and applies a persisted snapshot from stateFile, if
// present. A missing file is not an error (first boot); any other read
// or decode failure is, the caller should exit the process.
func (e *ChatEngine) LoadState() error {
	data, err := os.ReadFile(e.persister.stateFile)
	if err != nil {
		if os.IsNotExist(err) {
			return nil
		}
		return err
	}
	return e.deserialize(data)
}

// StateFilePath returns the absolute path of the configured state
// file, for logging at boot.
func (e *ChatEngine) StateFilePath() string {
	path, err := filepath.Abs(e.persister.stateFile)
	if err != nil {
		return e.persister.stateFile
	}
	return path
}
