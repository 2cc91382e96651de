package colbatch

import (
	"io"
	"path/filepath"
	"reflect"
	"testing"
)

type testBatch struct {
	A []string `json:"a"`
	B []int    `json:"b"`
}

func TestWriteReadRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "batches.bin")

	w, err := Create(path)
	if err != nil {
		t.Fatal(err)
	}
	batches := []testBatch{
		{A: []string{"x", "y"}, B: []int{1, 2}},
		{A: []string{"z"}, B: []int{3}},
	}
	for _, b := range batches {
		if err := w.WriteBatch(b); err != nil {
			t.Fatal(err)
		}
	}
	if err := w.Close(); err != nil {
		t.Fatal(err)
	}

	r, err := Open(path)
	if err != nil {
		t.Fatal(err)
	}
	defer r.Close()

	var got []testBatch
	for {
		var b testBatch
		err := r.Next(&b)
		if err == io.EOF {
			break
		}
		if err != nil {
			t.Fatal(err)
		}
		got = append(got, b)
	}

	if !reflect.DeepEqual(got, batches) {
		t.Errorf("got %+v, want %+v", got, batches)
	}
}

func TestAppend(t *testing.T) {
	path := filepath.Join(t.TempDir(), "batches.bin")

	w, err := Create(path)
	if err != nil {
		t.Fatal(err)
	}
	if err := w.WriteBatch(testBatch{A: []string{"a"}, B: []int{1}}); err != nil {
		t.Fatal(err)
	}
	if err := w.Close(); err != nil {
		t.Fatal(err)
	}

	w2, err := OpenAppend(path)
	if err != nil {
		t.Fatal(err)
	}
	if err := w2.WriteBatch(testBatch{A: []string{"b"}, B: []int{2}}); err != nil {
		t.Fatal(err)
	}
	if err := w2.Close(); err != nil {
		t.Fatal(err)
	}

	r, err := Open(path)
	if err != nil {
		t.Fatal(err)
	}
	defer r.Close()

	var count int
	for {
		var b testBatch
		if err := r.Next(&b); err != nil {
			if err == io.EOF {
				break
			}
			t.Fatal(err)
		}
		count++
	}
	if count != 2 {
		t.Errorf("got %d batches, want 2", count)
	}
}
