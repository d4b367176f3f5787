package model

import (
	"fmt"
	"strings"
)

// Column names of the gene-hit table (AMRFinder output merged across samples).
type HitColumns struct {
	Sample   string `mapstructure:"sample"`
	Contig   string `mapstructure:"contig"`
	Gene     string `mapstructure:"gene"`
	Class    string `mapstructure:"class"`
	Identity string `mapstructure:"identity"`
	Coverage string `mapstructure:"coverage"`
}

// Column names of the contig classification report (MOB-suite contig_report.txt).
type ClassificationColumns struct {
	Sample   string `mapstructure:"sample"`
	Contig   string `mapstructure:"contig"`
	Molecule string `mapstructure:"molecule"`
}

func DefaultHitColumns() HitColumns {
	return HitColumns{
		Sample:   "Name",
		Contig:   "Contig id",
		Gene:     "Gene symbol",
		Class:    "Class",
		Identity: "% Identity to reference sequence",
		Coverage: "% Coverage of reference sequence",
	}
}

func DefaultClassificationColumns() ClassificationColumns {
	return ClassificationColumns{
		Sample:   "sample_id",
		Contig:   "contig_id",
		Molecule: "molecule_type",
	}
}

// Key identifies a contig within a sample.
type Key struct {
	Sample string
	Contig string
}

func (k Key) String() string {
	return fmt.Sprintf("%s|%s", k.Sample, k.Contig)
}

type MoleculeKind int

const (
	Chromosome MoleculeKind = iota + 1
	Plasmid
	Other
)

// MoleculeType is the location a contig was classified to. Labels other than
// chromosome and plasmid are kept verbatim under the Other kind.
type MoleculeType struct {
	Kind  MoleculeKind
	Label string
}

// ParseMoleculeType maps a classifier label to a MoleculeType. It reports
// false for an empty label.
func ParseMoleculeType(s string) (MoleculeType, bool) {
	label := strings.TrimSpace(s)
	switch strings.ToLower(label) {
	case "":
		return MoleculeType{}, false
	case "chromosome":
		return MoleculeType{Kind: Chromosome, Label: "chromosome"}, true
	case "plasmid":
		return MoleculeType{Kind: Plasmid, Label: "plasmid"}, true
	default:
		return MoleculeType{Kind: Other, Label: label}, true
	}
}

func (m MoleculeType) String() string {
	return m.Label
}

// GeneHit is one detected resistance gene on one contig of one sample.
type GeneHit struct {
	Sample   string
	Contig   string
	Gene     string
	Class    string
	Identity float64
	Coverage float64
}

func (h GeneHit) Key() Key {
	return Key{Sample: h.Sample, Contig: h.Contig}
}

// LinkedRecord is a gene hit annotated with the molecule its contig sits on.
type LinkedRecord struct {
	Sample   string
	Contig   string
	Gene     string
	Molecule MoleculeType
	// Located is false when the molecule type cell was empty.
	Located bool
}
