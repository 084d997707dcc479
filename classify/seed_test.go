package classify_test

import (
	"strings"
	"testing"

	"github.com/grailbio/svelt/classify"
	"github.com/grailbio/svelt/reference"
	"github.com/grailbio/testutil/assert"
	"github.com/grailbio/testutil/expect"
)

const panelFasta = ">ALU\n" +
	"GGCCGGGCGCGGTGGCTCACGCCTGTAATCCCAGCACTTTGGGAGGCCGAGGCGGGCGGATCACGAGGTCAGGAGATCGAGACCATCCCGGCTAAAACGGTGAAACCCCGTCTCTACTAAAAATACAAAAAATTAGCCGGGCGTGGTGGCGGGCGCCTGTAGTCCCAGCTACTCGGGAGGCTGAGGCAGGAGAATGGCGTGAACCCGGGAGGCGGAGCTTGCAGTGAGCCGAGATCGCGCCACTGCACTCCAGCCTGGGCGACAGAGCGAGACTCCGTCTCAAAAAAA\n" +
	">LINE1\n" +
	"TTTTTTTTTTAGACAGAGTCTTGCTCTGTCGCCCAGGCTGGAGTGCAGTGGCGCGATCTCGGCTCACTGCAAGCTCCGCCTCCCGGGTTCACGCCATTCTCCTGCCTCAGCCTCCCGAGTAGCTGGGACTACAGGCGCCCGCCACCACGCCCGGCTAATTTTTTGTATTTTTAGTAGAGACGGGGTTTCACCGTGTTAGCCAGGATGGTCTCGATCTCCTGACCTCGTGATCCGCCCGCCTCGGCCTCCCAAAGTGCTGGGATTACAGGCGTGAGCCACCGCGCCCGGCC\n"

func TestSeedClassifierMatchesPanelMember(t *testing.T) {
	f, err := reference.New(strings.NewReader(panelFasta))
	assert.NoError(t, err)
	c, err := classify.NewSeedClassifier(f, 15, 0.5)
	assert.NoError(t, err)

	aluSeq, err := f.Get("ALU", 0, mustLen(t, f, "ALU"))
	assert.NoError(t, err)
	label, ok := c.Classify(aluSeq)
	expect.True(t, ok)
	expect.EQ(t, label, "ALU")
}

func TestSeedClassifierRejectsShortQuery(t *testing.T) {
	f, err := reference.New(strings.NewReader(panelFasta))
	assert.NoError(t, err)
	c, err := classify.NewSeedClassifier(f, 21, 0.5)
	assert.NoError(t, err)

	_, ok := c.Classify("ACGT")
	expect.False(t, ok)
}

func TestSeedClassifierRejectsUnrelatedQuery(t *testing.T) {
	f, err := reference.New(strings.NewReader(panelFasta))
	assert.NoError(t, err)
	c, err := classify.NewSeedClassifier(f, 21, 0.9)
	assert.NoError(t, err)

	_, ok := c.Classify(strings.Repeat("ACGTACGTACGTACGTACGTACGTACGTACGTACGT", 3))
	expect.False(t, ok)
}

func mustLen(t *testing.T, f reference.Fasta, name string) uint64 {
	n, err := f.Len(name)
	assert.NoError(t, err)
	return n
}
