package shell

import (
	"bytes"
	"testing"

	"github.com/smartystreets/assertions/should"
	"github.com/smartystreets/gunit"
)

func TestBarProgressMeterFixture(t *testing.T) {
	gunit.Run(new(BarProgressMeterFixture), t)
}

type BarProgressMeterFixture struct {
	*gunit.Fixture
	output *bytes.Buffer
	meter  *BarProgressMeter
}

func (this *BarProgressMeterFixture) Setup() {
	this.output = new(bytes.Buffer)
	this.meter = NewBarProgressMeter(this.output)
}

func (this *BarProgressMeterFixture) TestBarDrawn() {
	bar := this.meter.Track("foo.pkg", 8)

	written, err := bar.Write([]byte("12345678"))

	this.So(err, should.BeNil)
	this.So(written, should.Equal, 8)
	this.So(bar.Close(), should.BeNil)
}

func (this *BarProgressMeterFixture) TestUnknownSizeNotDrawn() {
	bar := this.meter.Track("foo.pkg", -1)

	written, err := bar.Write([]byte("12345678"))

	this.So(err, should.BeNil)
	this.So(written, should.Equal, 8)
	this.So(bar.Close(), should.BeNil)
	this.So(this.output.Len(), should.Equal, 0)
}
