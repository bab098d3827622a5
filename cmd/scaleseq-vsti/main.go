//go:build plugin

package main

import (
	"context"

	"github.com/scaleseq/scaleseq/mts"
	"github.com/scaleseq/scaleseq/sequencer"
	"github.com/scaleseq/scaleseq/version"
	"github.com/sirupsen/logrus"
	"pipelined.dev/audio/vst2"
)

var PLUGIN_ID = [4]byte{'S', 'c', 'S', 'q'}

const PLUGIN_NAME = "Scale Sequencer"

const timeInfoFlags = vst2.PpqPosValid | vst2.BarsValid | vst2.TimeSigValid | vst2.TempoValid

// transport reads the position of the host. A host that does not report a
// position gives an invalid transport, which the sequencer treats as the
// start of bar 1.
func transport(h vst2.Host) sequencer.Transport {
	ti := h.GetTimeInfo(timeInfoFlags)
	if ti == nil || ti.Flags&vst2.PpqPosValid == 0 {
		return sequencer.Transport{}
	}
	num, den := 4, 4
	if ti.Flags&vst2.TimeSigValid != 0 {
		num, den = int(ti.TimeSigNumerator), int(ti.TimeSigDenominator)
	}
	t := sequencer.TransportFromQuarters(ti.PpqPos, ti.BarStartPos, ti.Flags&vst2.BarsValid != 0, num, den)
	if ti.Flags&vst2.TempoValid != 0 {
		t.BPM = ti.Tempo
	}
	return t
}

// drain empties the broker until ctx is done. Alerts go to the log, as the
// plugin has no editor to show them in, and step messages are dropped.
func drain(ctx context.Context, b *sequencer.Broker, log logrus.FieldLogger) {
	for {
		select {
		case <-ctx.Done():
			return
		case a := <-b.Alerts:
			log.WithField("priority", a.Priority).Warn(a.Message)
		case <-b.ToMonitor:
		}
	}
}

func init() {
	var (
		pluginVersion = int32(100)
	)
	vst2.PluginAllocator = func(h vst2.Host) (vst2.Plugin, vst2.Dispatcher) {
		log := logrus.WithFields(logrus.Fields{"plugin": PLUGIN_NAME, "version": version.VersionOrHash})
		seq := sequencer.New(mts.Default.NewClient(), sequencer.WithLogger(log))
		seq.Activate()
		ctx, cancel := context.WithCancel(context.Background())
		go drain(ctx, seq.Broker(), log)
		return vst2.Plugin{
				UniqueID:       PLUGIN_ID,
				Version:        pluginVersion,
				InputChannels:  2,
				OutputChannels: 2,
				Name:           PLUGIN_NAME,
				Vendor:         "scaleseq",
				Category:       vst2.PluginCategoryEffect,
				ProcessFloatFunc: func(in, out vst2.FloatBuffer) {
					seq.Process(transport(h), out.Frames)
					for c := 0; c < 2; c++ {
						copy(out.Channel(c), in.Channel(c))
					}
				},
			}, vst2.Dispatcher{
				CanDoFunc: func(pcds vst2.PluginCanDoString) vst2.CanDoResponse {
					switch pcds {
					case vst2.PluginCanReceiveTimeInfo:
						return vst2.YesCanDo
					}
					return vst2.NoCanDo
				},
				CloseFunc: func() {
					seq.Deactivate()
					cancel()
				},
				GetChunkFunc: func(isPreset bool) []byte {
					data, err := seq.MarshalState()
					if err != nil {
						log.WithError(err).Error("could not save state")
					}
					return data
				},
				SetChunkFunc: func(data []byte, isPreset bool) {
					if err := seq.UnmarshalState(data); err != nil {
						log.WithError(err).Warn("state restored with errors")
					}
				},
			}
	}
}

func main() {}
