package storage

import "bytes"

// progressReader reports bytes read through it as a fraction of the total.
// The object store SDK reads the body exactly once since we provide the
// content length up front.
type progressReader struct {
	r        *bytes.Reader
	total    int64
	read     int64
	callback func(frac float64)
}

func newProgressReader(data []byte, callback func(frac float64)) *progressReader {
	return &progressReader{
		r:        bytes.NewReader(data),
		total:    int64(len(data)),
		callback: callback,
	}
}

func (p *progressReader) Read(b []byte) (int, error) {
	n, err := p.r.Read(b)
	if n > 0 {
		p.read += int64(n)
		if p.callback != nil && p.total > 0 {
			p.callback(float64(p.read) / float64(p.total))
		}
	}
	return n, err
}
