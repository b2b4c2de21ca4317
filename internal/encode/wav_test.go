package encode

import (
	"encoding/binary"
	"testing"
)

func TestWAVLengthAndDeclaredSizes(t *testing.T) {
	for _, n := range []int{1, 2, 512, 48000 * 3} {
		samples := make([]int16, n)
		out := WAV(samples, 48000)

		if len(out) != 44+2*n {
			t.Fatalf("n=%d: expected total length %d, got %d", n, 44+2*n, len(out))
		}
		if riffSize := binary.LittleEndian.Uint32(out[4:8]); riffSize != uint32(36+2*n) {
			t.Fatalf("n=%d: RIFF size field = %d, want %d", n, riffSize, 36+2*n)
		}
		if dataSize := binary.LittleEndian.Uint32(out[40:44]); dataSize != uint32(2*n) {
			t.Fatalf("n=%d: data chunk size = %d, want %d", n, dataSize, 2*n)
		}
	}
}

func TestWAVHeaderFields(t *testing.T) {
	out := WAV([]int16{0, 0, 0, 0}, 44100)

	if string(out[0:4]) != "RIFF" || string(out[8:12]) != "WAVE" {
		t.Fatal("missing RIFF/WAVE magic")
	}
	if string(out[12:16]) != "fmt " || string(out[36:40]) != "data" {
		t.Fatal("missing fmt /data chunk markers")
	}
	if tag := binary.LittleEndian.Uint16(out[20:22]); tag != 1 {
		t.Fatalf("format tag = %d, want 1 (PCM)", tag)
	}
	if ch := binary.LittleEndian.Uint16(out[22:24]); ch != 1 {
		t.Fatalf("channels = %d, want 1", ch)
	}
	if rate := binary.LittleEndian.Uint32(out[24:28]); rate != 44100 {
		t.Fatalf("sample rate = %d, want 44100", rate)
	}
	if byteRate := binary.LittleEndian.Uint32(out[28:32]); byteRate != 44100*2 {
		t.Fatalf("byte rate = %d, want %d", byteRate, 44100*2)
	}
	if align := binary.LittleEndian.Uint16(out[32:34]); align != 2 {
		t.Fatalf("block align = %d, want 2", align)
	}
	if bits := binary.LittleEndian.Uint16(out[34:36]); bits != 16 {
		t.Fatalf("bit depth = %d, want 16", bits)
	}
}

func TestWAVPayloadLittleEndian(t *testing.T) {
	out := WAV([]int16{0x0102, -2}, 8000)

	payload := out[44:]
	if payload[0] != 0x02 || payload[1] != 0x01 {
		t.Fatalf("first sample not little-endian: % x", payload[0:2])
	}
	// -2 is 0xFFFE
	if payload[2] != 0xFE || payload[3] != 0xFF {
		t.Fatalf("negative sample mis-encoded: % x", payload[2:4])
	}
}
