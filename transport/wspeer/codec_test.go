package wspeer

import (
	"encoding/json"
	"testing"

	"github.com/nomadcore/rollback/input"
	"github.com/nomadcore/rollback/netmsg"
	"github.com/stretchr/testify/require"
)

func marshalInto(t *testing.T, kind MessageKind, payload any) Envelope {
	t.Helper()
	data, err := json.Marshal(payload)
	require.NoError(t, err)
	return Envelope{Kind: kind, Data: data}
}

func TestDecodeInputUpdateRoundTrip(t *testing.T) {
	msg := netmsg.InputUpdate{Frame: 7, Spot: input.Player2}
	env := marshalInto(t, KindInputUpdate, msg)

	got, err := DecodeInputUpdate(env)
	require.NoError(t, err)
	require.Equal(t, msg.Frame, got.Frame)
	require.Equal(t, msg.Spot, got.Spot)
}

func TestDecodeTimeQualityReportRoundTrip(t *testing.T) {
	msg := netmsg.TimeQualityReport{Frame: 3, Ping: 123456}
	env := marshalInto(t, KindTimeQualityReport, msg)

	got, err := DecodeTimeQualityReport(env)
	require.NoError(t, err)
	require.Equal(t, msg, got)
}

func TestDecodeTimeQualityResponseRoundTrip(t *testing.T) {
	msg := netmsg.TimeQualityResponse{Pong: 654321}
	env := marshalInto(t, KindTimeQualityResponse, msg)

	got, err := DecodeTimeQualityResponse(env)
	require.NoError(t, err)
	require.Equal(t, msg, got)
}

func TestDecodeValidationChecksumRoundTrip(t *testing.T) {
	msg := netmsg.ValidationChecksum{Frame: 99, Checksum: 0xDEADBEEF}
	env := marshalInto(t, KindValidationChecksum, msg)

	got, err := DecodeValidationChecksum(env)
	require.NoError(t, err)
	require.Equal(t, msg, got)
}

func TestDecodePlayerSpotMappingRoundTrip(t *testing.T) {
	msg := netmsg.PlayerSpotMapping{TotalPlayers: 2}
	msg.PlayerIDs[0] = 111
	msg.PlayerIDs[1] = 222
	env := marshalInto(t, KindPlayerSpotMapping, msg)

	got, err := DecodePlayerSpotMapping(env)
	require.NoError(t, err)
	require.Equal(t, msg, got)
}

func TestDecodeInputUpdateMalformedFails(t *testing.T) {
	env := Envelope{Kind: KindInputUpdate, Data: []byte(`{"Frame": "not-a-number"}`)}
	_, err := DecodeInputUpdate(env)
	require.Error(t, err)
}
