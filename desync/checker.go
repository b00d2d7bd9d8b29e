// Package desync implements per-frame checksum comparison between a local
// peer and the host peer. Only verified (fully confirmed) frame
// checksums are expected here; this package is stateless between frames
// except for the one in-flight check for the current target frame.
//
// For initial design simplicity only the non-host compares to the host —
// extending to all-pairs comparison is a future step with no change to
// the wire protocol.
package desync

import (
	"github.com/nomadcore/rollback/input"
	"github.com/nomadcore/rollback/rlog"
)

// Checker compares locally- and remotely-produced checksums for a single
// verified frame at a time.
type Checker struct {
	logger rlog.Logger

	targetFrame input.Frame
	haveLocal   bool
	haveHost    bool
	checked     bool

	localChecksum uint32
	hostChecksum  uint32
}

// New creates a Checker ready to track checks starting at frame 0.
func New(logger rlog.Logger) *Checker {
	return &Checker{logger: logger}
}

// ProvideLocalChecksum records the local peer's checksum for targetFrame.
func (c *Checker) ProvideLocalChecksum(targetFrame input.Frame, checksum uint32) {
	c.setupForNewFrameIfNecessary(targetFrame)

	if c.haveLocal {
		c.logger.Warnf("desync: ignoring duplicate local checksum for frame %d", targetFrame)
		return
	}

	c.localChecksum = checksum
	c.haveLocal = true
}

// ProvideRemoteHostChecksum records the host peer's checksum for targetFrame.
func (c *Checker) ProvideRemoteHostChecksum(targetFrame input.Frame, checksum uint32) {
	c.setupForNewFrameIfNecessary(targetFrame)

	if c.haveHost {
		c.logger.Warnf("desync: ignoring duplicate host checksum for frame %d", targetFrame)
		return
	}

	c.hostChecksum = checksum
	c.haveHost = true
}

// IsReady reports whether both sides' checksums for the current target
// frame have arrived.
func (c *Checker) IsReady() bool {
	return c.haveLocal && c.haveHost
}

// DidDesyncOccur compares the two checksums and marks the current target
// frame's check as consumed. Call only once IsReady reports true.
func (c *Checker) DidDesyncOccur() bool {
	c.checked = true
	return c.localChecksum != c.hostChecksum
}

// TargetFrame returns the frame currently being checked.
func (c *Checker) TargetFrame() input.Frame {
	return c.targetFrame
}

// LocalChecksum returns the local peer's checksum recorded for the current
// target frame. Only meaningful once IsReady reports true.
func (c *Checker) LocalChecksum() uint32 {
	return c.localChecksum
}

// HostChecksum returns the host peer's checksum recorded for the current
// target frame. Only meaningful once IsReady reports true.
func (c *Checker) HostChecksum() uint32 {
	return c.hostChecksum
}

func (c *Checker) setupForNewFrameIfNecessary(targetFrame input.Frame) {
	if targetFrame == c.targetFrame {
		return
	}

	if targetFrame < c.targetFrame {
		c.logger.Warnf("desync: new target frame %d is less than prior target frame %d", targetFrame, c.targetFrame)
	}

	if !c.checked {
		c.logger.Warnf("desync: target frame %d was never checked before moving on to frame %d", c.targetFrame, targetFrame)
	}

	*c = Checker{logger: c.logger, targetFrame: targetFrame}
}
