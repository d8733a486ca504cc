package kcp

import (
	md "github.com/go-trunk/trunk/pkg/metadata"
)

const (
	defaultSndWnd = 1024
	defaultRcvWnd = 1024
	defaultMTU    = 1400
)

type metadata struct {
	dataShards   int
	parityShards int

	noDelay      int
	interval     int
	resend       int
	noCongestion int

	sndWnd int
	rcvWnd int
	mtu    int

	readBuffer  int
	writeBuffer int
	ackNoDelay  bool
}

func (d *kcpDialer) parseMetadata(mdata md.Metadata) (err error) {
	const (
		dataShards   = "dataShards"
		parityShards = "parityShards"
		noDelay      = "noDelay"
		interval     = "interval"
		resend       = "resend"
		noCongestion = "noCongestion"
		sndWnd       = "sndWnd"
		rcvWnd       = "rcvWnd"
		mtu          = "mtu"
		readBuffer   = "readBuffer"
		writeBuffer  = "writeBuffer"
		ackNoDelay   = "ackNoDelay"
	)

	d.md.dataShards = mdata.GetInt(dataShards)
	d.md.parityShards = mdata.GetInt(parityShards)

	// Turbo profile unless tuned otherwise.
	d.md.noDelay = 1
	d.md.interval = 10
	d.md.resend = 2
	d.md.noCongestion = 1
	if mdata.IsExists(noDelay) {
		d.md.noDelay = mdata.GetInt(noDelay)
	}
	if mdata.IsExists(interval) {
		d.md.interval = mdata.GetInt(interval)
	}
	if mdata.IsExists(resend) {
		d.md.resend = mdata.GetInt(resend)
	}
	if mdata.IsExists(noCongestion) {
		d.md.noCongestion = mdata.GetInt(noCongestion)
	}

	d.md.sndWnd = mdata.GetInt(sndWnd)
	if d.md.sndWnd <= 0 {
		d.md.sndWnd = defaultSndWnd
	}
	d.md.rcvWnd = mdata.GetInt(rcvWnd)
	if d.md.rcvWnd <= 0 {
		d.md.rcvWnd = defaultRcvWnd
	}
	d.md.mtu = mdata.GetInt(mtu)
	if d.md.mtu <= 0 {
		d.md.mtu = defaultMTU
	}

	d.md.readBuffer = mdata.GetInt(readBuffer)
	d.md.writeBuffer = mdata.GetInt(writeBuffer)
	d.md.ackNoDelay = mdata.GetBool(ackNoDelay)
	return
}
