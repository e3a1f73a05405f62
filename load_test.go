package solarkit

import (
	"errors"
	"strings"
	"testing"
)

const planetTable = `Body,m,a,ecc,beta,R,trot,P,colour
Sun,333000,0,0,0,109,25.4,0,y
Mercury,0.055,0.387,0.2056,7,0.383,58.6,0.241,grey
Venus,0.815,0.723,0.0068,3.4,0.949,-243,0.615,y
Earth,1,1,0.0167,0,1,1,1,b
`

func TestReadSystemDropsCentralBody(t *testing.T) {
	sys, err := ReadSystem("Solar System", strings.NewReader(planetTable))
	if err != nil {
		t.Fatal(err)
	}
	// The Sun row has a=0 and goes through the same filter as Add.
	if sys.Len() != 3 {
		t.Fatalf("expected 3 bodies, got %d", sys.Len())
	}
	if _, found := sys.Get("Sun"); found {
		t.Fatal("central body must not be loaded")
	}
	venus, found := sys.Get("Venus")
	if !found {
		t.Fatal("Venus missing")
	}
	if venus.P != 0.615 || venus.Color != "y" || venus.Beta != 3.4 {
		t.Fatalf("Venus parsed wrong: %+v", venus)
	}
}

func TestReadSystemHeaderAliases(t *testing.T) {
	// Loaders in the wild use name/c instead of Body/colour.
	table := "name,m,a,ecc,beta,R,trot,P,c\nMars,0.107,1.524,0.0934,1.9,0.532,1.03,1.881,r\n"
	sys, err := ReadSystem("aliases", strings.NewReader(table))
	if err != nil {
		t.Fatal(err)
	}
	mars, found := sys.Get("Mars")
	if !found {
		t.Fatal("Mars missing")
	}
	if mars.Color != "r" || mars.A != 1.524 {
		t.Fatalf("Mars parsed wrong: %+v", mars)
	}
}

func TestReadSystemMissingColumn(t *testing.T) {
	table := "Body,m,a,ecc,beta,R,trot\nEarth,1,1,0.0167,0,1,1\n"
	if _, err := ReadSystem("bad", strings.NewReader(table)); !errors.Is(err, ErrBadHeader) {
		t.Fatalf("expected ErrBadHeader, got %v", err)
	}
}

func TestReadSystemBadNumber(t *testing.T) {
	table := planetTable + "Nonsense,x,1,0,0,1,1,1,k\n"
	if _, err := ReadSystem("bad", strings.NewReader(table)); err == nil {
		t.Fatal("expected a parse error")
	}
}
