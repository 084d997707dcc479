package reference_test

import (
	"strings"
	"testing"

	"github.com/grailbio/svelt/reference"
	"github.com/grailbio/testutil/assert"
	"github.com/grailbio/testutil/expect"
)

const multiSeqFasta = ">chr1 first contig\nACGT\nACGT\n>chr2\nTTTT\n"

func TestFastaParsesMultipleSequences(t *testing.T) {
	f, err := reference.New(strings.NewReader(multiSeqFasta))
	assert.NoError(t, err)
	expect.EQ(t, f.SeqNames(), []string{"chr1", "chr2"})

	n, err := f.Len("chr1")
	assert.NoError(t, err)
	expect.EQ(t, n, uint64(8))

	seq, err := f.Get("chr1", 0, 8)
	assert.NoError(t, err)
	expect.EQ(t, seq, "ACGTACGT")
}

func TestFastaHeaderNameStopsAtFirstSpace(t *testing.T) {
	f, err := reference.New(strings.NewReader(multiSeqFasta))
	assert.NoError(t, err)
	_, err = f.Get("chr1 first contig", 0, 1)
	expect.NotNil(t, err)
}

func TestFastaGetRejectsOutOfRange(t *testing.T) {
	f, err := reference.New(strings.NewReader(multiSeqFasta))
	assert.NoError(t, err)
	_, err = f.Get("chr2", 0, 100)
	expect.NotNil(t, err)
}

func TestFastaRejectsEmptyInput(t *testing.T) {
	_, err := reference.New(strings.NewReader(""))
	expect.NotNil(t, err)
}

func TestFastaKeepsZeroLengthRecordFollowedByAnotherHeader(t *testing.T) {
	f, err := reference.New(strings.NewReader(">empty\n>chr1\nACGT\n"))
	assert.NoError(t, err)
	expect.EQ(t, f.SeqNames(), []string{"empty", "chr1"})

	n, err := f.Len("empty")
	assert.NoError(t, err)
	expect.EQ(t, n, uint64(0))

	seq, err := f.Get("chr1", 0, 4)
	assert.NoError(t, err)
	expect.EQ(t, seq, "ACGT")
}
