package processor

import (
	"bytes"
	"testing"
)

func TestOutboundInboundRoundTrip(t *testing.T) {
	csvData := []byte("id_transaksi_original,jumlah\nTX-1,1500000\n")

	for _, compress := range []bool{false, true} {
		key, payload := ProcessOutboundBlob("manual_input/pemasukan/pemasukan_TX-1", csvData, compress)
		if !IsStagedBlob(key) {
			t.Fatalf("compress=%v key %q not recognised", compress, key)
		}
		if compress && bytes.Equal(payload, csvData) {
			t.Fatalf("compressed payload equals input")
		}
		got, err := ProcessInboundBlob(key, payload)
		if err != nil {
			t.Fatalf("compress=%v inbound: %v", compress, err)
		}
		if !bytes.Equal(got, csvData) {
			t.Fatalf("compress=%v got=%q want=%q", compress, got, csvData)
		}
	}
}

func TestInboundRejectsCorruptSnappy(t *testing.T) {
	if _, err := ProcessInboundBlob("x.csv.sz", []byte("not snappy at all")); err == nil {
		t.Fatalf("expected error for corrupt payload")
	}
}

func TestIsStagedBlob(t *testing.T) {
	if IsStagedBlob("source_data/places/readme.txt") {
		t.Fatalf("txt must be ignored")
	}
	if !IsStagedBlob("source_data/places/places_data_20250101.csv") {
		t.Fatalf("csv must be accepted")
	}
}
