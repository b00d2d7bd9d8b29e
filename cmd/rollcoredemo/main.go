// Command rollcoredemo is a minimal two-peer example host exercising the
// rollback core end to end: a toy simulation (players drifting around a
// 2D plane under fixed-point input) driven by rollback.Controller over a
// wspeer websocket connection.
package main

import (
	"flag"
	"fmt"
	"net/http"
	"os"
	"time"

	"github.com/nomadcore/rollback/fxevents"
	"github.com/nomadcore/rollback/input"
	"github.com/nomadcore/rollback/netmsg"
	"github.com/nomadcore/rollback/rlog"
	"github.com/nomadcore/rollback/rollback"
	"github.com/nomadcore/rollback/transport/wspeer"
)

const demoTickIntervalMs = 1000 / 60

type opts struct {
	listenAddr string
	connectURL string
	players    uint
	delay      uint
	syncTest   bool
	lockstep   bool
	localSpot  uint
}

func parseOpts() *opts {
	o := &opts{}
	flag.StringVar(&o.listenAddr, "listen", "", "listen address (server side), e.g. :9000")
	flag.StringVar(&o.connectURL, "connect", "", "websocket URL to connect to (client side), e.g. ws://localhost:9000/ws")
	flag.UintVar(&o.players, "players", 2, "total player count")
	flag.UintVar(&o.delay, "delay", 2, "local input delay in frames")
	flag.BoolVar(&o.syncTest, "synctest", false, "enable sync-test mode (no network needed)")
	flag.BoolVar(&o.lockstep, "lockstep", false, "enable lockstep mode")
	flag.UintVar(&o.localSpot, "spot", 0, "local player spot index")
	flag.Parse()
	return o
}

func main() {
	o := parseOpts()
	logger := rlog.NewStd()

	if o.syncTest {
		runSyncTestDemo(logger, o)
		return
	}

	if o.listenAddr == "" && o.connectURL == "" {
		fmt.Fprintln(os.Stderr, "rollcoredemo: one of -listen or -connect is required (or pass -synctest)")
		os.Exit(1)
	}

	peer, err := connectPeer(logger, o)
	if err != nil {
		logger.Errorf("rollcoredemo: %s", err)
		os.Exit(1)
	}
	defer peer.Close()

	runNetworkedDemo(logger, o, peer)
}

func connectPeer(logger rlog.Logger, o *opts) (*wspeer.Peer, error) {
	if o.listenAddr != "" {
		var accepted *wspeer.Peer
		mux := http.NewServeMux()
		mux.HandleFunc("/ws", func(w http.ResponseWriter, r *http.Request) {
			p, err := wspeer.Accept(logger, w, r)
			if err != nil {
				logger.Errorf("rollcoredemo: accept failed: %s", err)
				return
			}
			accepted = p
		})

		logger.Infof("listening on %s, waiting for a peer to connect...", o.listenAddr)
		server := &http.Server{Addr: o.listenAddr, Handler: mux}
		go func() {
			if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
				logger.Errorf("rollcoredemo: server error: %s", err)
			}
		}()

		for accepted == nil {
			time.Sleep(50 * time.Millisecond)
		}
		return accepted, nil
	}

	logger.Infof("connecting to %s...", o.connectURL)
	return wspeer.Dial(logger, o.connectURL)
}

// runNetworkedDemo drives the Controller against a real wspeer connection.
func runNetworkedDemo(logger rlog.Logger, o *opts, peer *wspeer.Peer) {
	localSpot := input.Spot(o.localSpot)
	sim := newDemoSim(uint8(o.players))
	user := newDemoUser(logger, sim, localSpot)

	settings := rollback.Settings{
		TotalPlayers:    uint8(o.players),
		LocalInputDelay: int(o.delay),
		UseLockstep:     o.lockstep,
	}

	ctrl, err := rollback.New[DemoSnapshot](logger, user, settings, localSpot, demoTickIntervalMs)
	if err != nil {
		logger.Errorf("rollcoredemo: %s", err)
		os.Exit(1)
	}
	ctrl.SetEventTracker(fxevents.New[DemoEvent]())

	go dispatchIncoming(logger, peer, ctrl)

	ticker := time.NewTicker(demoTickIntervalMs * time.Millisecond)
	defer ticker.Stop()

	for now := range ticker.C {
		result := ctrl.Advance(now.UnixMilli())
		switch result.Kind {
		case rollback.Stall:
			logger.Infof("stalling at frame %d, waiting on %v", result.StallInfo.TargetFrame, result.StallInfo.WaitingOnSpots)
		case rollback.RolledBack:
			logger.Infof("rolled back to frame %d", result.RollbackFrame)
		case rollback.Ended:
			logger.Infof("input source exhausted, ending demo")
			return
		}
	}
}

// dispatchIncoming drains the peer's incoming envelopes into the
// Controller; a host is expected to drain its transport like this before
// each Advance call.
func dispatchIncoming(logger rlog.Logger, peer *wspeer.Peer, ctrl *rollback.Controller[DemoSnapshot]) {
	for env := range peer.Recv() {
		switch env.Kind {
		case wspeer.KindInputUpdate:
			msg, err := wspeer.DecodeInputUpdate(env)
			if err != nil {
				logger.Warnf("rollcoredemo: bad input update: %s", err)
				continue
			}
			for i := len(msg.History) - 1; i >= 0; i-- {
				frame := msg.Frame - input.Frame(i)
				if i > 0 && frame > msg.Frame {
					continue
				}
				ctrl.AddRemoteInput(frame, msg.Spot, msg.History[i])
			}

		case wspeer.KindValidationChecksum:
			msg, err := wspeer.DecodeValidationChecksum(env)
			if err != nil {
				logger.Warnf("rollcoredemo: bad validation checksum: %s", err)
				continue
			}
			ctrl.ProvideRemoteValidationChecksum(msg.Frame, msg.Checksum)

		case wspeer.KindTimeQualityReport:
			msg, err := wspeer.DecodeTimeQualityReport(env)
			if err != nil {
				continue
			}
			_ = peer.SendTimeQualityResponse(netmsg.TimeQualityResponse{Pong: msg.Ping})
		}
	}
}

// runSyncTestDemo runs a short local-only session with sync-test mode
// enabled, needing no network peer at all.
func runSyncTestDemo(logger rlog.Logger, o *opts) {
	sim := newDemoSim(uint8(o.players))
	user := newDemoUser(logger, sim, input.Player1)

	settings := rollback.Settings{
		TotalPlayers:    uint8(o.players),
		LocalInputDelay: int(o.delay),
		UseSyncTest:     true,
	}

	ctrl, err := rollback.New[DemoSnapshot](logger, user, settings, input.Player1, demoTickIntervalMs)
	if err != nil {
		logger.Errorf("rollcoredemo: %s", err)
		os.Exit(1)
	}

	const totalFrames = 600
	now := int64(0)
	nextRemoteFrame := input.Frame(0)
	for result := (rollback.AdvanceResult{}); result.Kind != rollback.Ended && int(result.LastFrame)+1 < totalFrames; {
		// Spots other than the local one have no input source in this
		// local-only run, so each gets a neutral confirmed input one frame
		// ahead of the simulation.
		for ; nextRemoteFrame <= result.LastFrame+1; nextRemoteFrame++ {
			for spot := input.Player2; spot < input.Spot(o.players); spot++ {
				ctrl.AddRemoteInput(nextRemoteFrame, spot, input.CharacterInput{})
			}
		}
		now += demoTickIntervalMs
		result = ctrl.Advance(now)
	}
	logger.Infof("sync-test demo completed %d frames with fixed-point math, no desync reported means determinism held", totalFrames)
}
