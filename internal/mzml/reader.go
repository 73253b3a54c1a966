package mzml

import (
	"bytes"
	"compress/zlib"
	"encoding/base64"
	"encoding/binary"
	"encoding/xml"
	"io"
	"math"
	"strconv"

	"golang.org/x/net/html/charset"
)

// Read reads mzML file from an io.Reader
func Read(reader io.Reader) (MzML, error) {
	var mzML MzML

	d := xml.NewDecoder(reader)
	d.CharsetReader = charset.NewReaderLabel

	// We are only interested in mzML content, so skip over indexedmzML
	// and everything else
	for {
		t, tokenErr := d.Token()
		if tokenErr != nil {
			if tokenErr == io.EOF {
				break
			}
			return mzML, tokenErr
		}
		switch t := t.(type) {
		case xml.StartElement:
			if t.Name.Local == "mzML" {
				if err := d.DecodeElement(&mzML.content, &t); err != nil {
					return mzML, err
				}
			}
		}
	}

	err := mzML.traverseScan()
	return mzML, err
}

// binaryDataPars decodes the CV terms in a mzML binarydata section
//
// CV Terms for binary data compression
// MS:1000574 zlib compression
// MS:1000576 No Compression
//
// CV Terms for binary data array types
// MS:1000514 m/z array
// MS:1000515 intensity array
// MS:1000516 charge array
//
// CV Terms for binary-data-type
// MS:1000521 32-bit float
// MS:1000523 64-bit float
func binaryDataPars(binaryDataArray *binaryDataArray) (
	zlibCompression, bits64, mzArray, intensityArray, chargeArray bool) {
	for _, cvParam := range binaryDataArray.CvPar {
		switch cvParam.Accession {
		case `MS:1000574`: // zlib compression
			zlibCompression = true
		case `MS:1000514`: // m/z array
			mzArray = true
		case `MS:1000515`: // intensity array
			intensityArray = true
		case `MS:1000516`: // charge array
			chargeArray = true
		case `MS:1000523`: // 64-bit float
			bits64 = true
		}
	}
	return zlibCompression, bits64, mzArray, intensityArray, chargeArray
}

// decodeBinary decodes one mzML binary data array into float64 values
func decodeBinary(binaryDataArray *binaryDataArray) ([]float64, error) {
	zlibCompression, bits64, _, _, _ := binaryDataPars(binaryDataArray)
	data, err := base64.StdEncoding.DecodeString(binaryDataArray.Binary)
	if err != nil {
		return nil, err
	}
	if zlibCompression {
		b := bytes.NewReader(data)
		z, err := zlib.NewReader(b)
		if err != nil {
			return nil, err
		}
		defer z.Close()
		d, err := io.ReadAll(z)
		if err != nil {
			return nil, err
		}
		data = d
	}
	var vals []float64
	if bits64 {
		cnt := len(data) / 8
		vals = make([]float64, cnt)
		for i := 0; i < cnt; i++ {
			bits := binary.LittleEndian.Uint64(data[i*8:])
			vals[i] = math.Float64frombits(bits)
		}
	} else {
		cnt := len(data) / 4
		vals = make([]float64, cnt)
		for i := 0; i < cnt; i++ {
			bits := binary.LittleEndian.Uint32(data[i*4:])
			vals[i] = float64(math.Float32frombits(bits))
		}
	}
	return vals, nil
}

// NumSpecs returns the number of spectra
func (f *MzML) NumSpecs() int {
	return len(f.content.Run.SpectrumList.Spectrum)
}

// ReadScan reads the peaks of a single scan.
// scanIndex is the position of the scan in the mzML file,
// not the scan number specified in the file itself. To read a scan
// using the mzML id, use ReadScan(f, ScanIndex(f, scanID))
func (f *MzML) ReadScan(scanIndex int) ([]Peak, error) {
	if scanIndex < 0 || scanIndex >= f.NumSpecs() {
		return nil, ErrInvalidScanIndex
	}
	p := make([]Peak, f.content.Run.SpectrumList.Spectrum[scanIndex].DefaultArrayLength)
	for _, b := range f.content.Run.SpectrumList.Spectrum[scanIndex].BinaryDataArrayList.BinaryDataArray {
		_, _, mzArray, intensityArray, _ := binaryDataPars(&b)
		if !mzArray && !intensityArray {
			continue
		}
		vals, err := decodeBinary(&b)
		if err != nil {
			return p, err
		}
		for i := 0; i < len(vals) && i < len(p); i++ {
			if mzArray {
				p[i].Mz = vals[i]
			} else {
				p[i].Intens = vals[i]
			}
		}
	}
	return p, nil
}

// ChargeArray returns the per-peak charge annotations of a scan,
// as produced by a deisotoping step upstream. The result is nil
// if the scan carries no charge array.
func (f *MzML) ChargeArray(scanIndex int) ([]int, error) {
	if scanIndex < 0 || scanIndex >= f.NumSpecs() {
		return nil, ErrInvalidScanIndex
	}
	for _, b := range f.content.Run.SpectrumList.Spectrum[scanIndex].BinaryDataArrayList.BinaryDataArray {
		_, _, _, _, chargeArray := binaryDataPars(&b)
		if !chargeArray {
			continue
		}
		vals, err := decodeBinary(&b)
		if err != nil {
			return nil, err
		}
		charges := make([]int, len(vals))
		for i, v := range vals {
			charges[i] = int(v)
		}
		return charges, nil
	}
	return nil, nil
}

// RetentionTime returns the retention time of a spectrum in seconds,
// or -1 if the file does not specify one
func (f *MzML) RetentionTime(scanIndex int) (float64, error) {
	if scanIndex < 0 || scanIndex >= f.NumSpecs() {
		return 0.0, ErrInvalidScanIndex
	}
	for _, scan := range f.content.Run.SpectrumList.Spectrum[scanIndex].ScanList.Scan {
		for _, cvParam := range scan.CvPar {
			if cvParam.Accession == "MS:1000016" {
				retentionTime, err := strconv.ParseFloat(cvParam.Value, 64)
				// Check if the retention time is in minutes, otherwise assume it's seconds
				if cvParam.UnitAccession == "UO:0000031" ||
					cvParam.UnitAccession == "MS:1000038" {
					retentionTime *= 60
				}
				return retentionTime, err
			}
		}
	}
	return -1.0, nil
}

// Centroid returns true if the spectrum contains centroid peaks
func (f *MzML) Centroid(scanIndex int) (bool, error) {
	if scanIndex < 0 || scanIndex >= f.NumSpecs() {
		return false, ErrInvalidScanIndex
	}
	for _, cvParam := range f.content.Run.SpectrumList.Spectrum[scanIndex].CvPar {
		if cvParam.Accession == "MS:1000127" { // centroid spectrum
			return true, nil
		}
	}
	return false, nil
}

// MSLevel returns the MS level of a scan
func (f *MzML) MSLevel(scanIndex int) (int, error) {
	if scanIndex < 0 || scanIndex >= f.NumSpecs() {
		return 0, ErrInvalidScanIndex
	}
	for _, cvParam := range f.content.Run.SpectrumList.Spectrum[scanIndex].CvPar {
		if cvParam.Accession == "MS:1000511" { // ms level
			msLevel, err := strconv.ParseInt(cvParam.Value, 10, 64)
			return int(msLevel), err
		}
	}
	return 1, nil // If nothing else, guess it's MS1
}

// TotalIonCurrent returns the total ion current, or NaN if not found
func (f *MzML) TotalIonCurrent(scanIndex int) (float64, error) {
	if scanIndex < 0 || scanIndex >= f.NumSpecs() {
		return 0.0, ErrInvalidScanIndex
	}
	for _, cvParam := range f.content.Run.SpectrumList.Spectrum[scanIndex].CvPar {
		if cvParam.Accession == "MS:1000285" { // total ion current
			tic, err := strconv.ParseFloat(cvParam.Value, 64)
			return tic, err
		}
	}
	return math.NaN(), nil
}

// PrecursorMz returns the selected-ion m/z of the precursor of an
// MS2 spectrum
func (f *MzML) PrecursorMz(scanIndex int) (float64, error) {
	cv, err := f.precursorCvParams(scanIndex)
	if err != nil {
		return 0.0, err
	}
	for _, cvParam := range cv {
		if cvParam.Accession == "MS:1000744" { // selected ion m/z
			return strconv.ParseFloat(cvParam.Value, 64)
		}
	}
	return 0.0, ErrNoPrecursor
}

// PrecursorCharge returns the charge state of the precursor of an
// MS2 spectrum, or 0 if the file does not specify one
func (f *MzML) PrecursorCharge(scanIndex int) (int, error) {
	cv, err := f.precursorCvParams(scanIndex)
	if err != nil {
		return 0, err
	}
	for _, cvParam := range cv {
		if cvParam.Accession == "MS:1000041" { // charge state
			charge, err := strconv.ParseInt(cvParam.Value, 10, 64)
			return int(charge), err
		}
	}
	return 0, nil
}

func (f *MzML) precursorCvParams(scanIndex int) ([]CVParam, error) {
	if scanIndex < 0 || scanIndex >= f.NumSpecs() {
		return nil, ErrInvalidScanIndex
	}
	pl := f.content.Run.SpectrumList.Spectrum[scanIndex].PrecursorList
	if len(pl) == 0 || len(pl[0].Precursor) == 0 ||
		len(pl[0].Precursor[0].SelectedIonList.SelectedIon) == 0 {
		return nil, ErrNoPrecursor
	}
	return pl[0].Precursor[0].SelectedIonList.SelectedIon[0].CvPar, nil
}

// traverseScan collects info of all scans and fills the arrays
// f.index2id and f.id2Index to make scans accessible
func (f *MzML) traverseScan() error {
	f.index2id = make([]string, f.NumSpecs())
	f.id2Index = make(map[string]int, f.NumSpecs())

	for i := range f.content.Run.SpectrumList.Spectrum {
		if err := f.addSpecToIndex(i); err != nil {
			return err
		}
	}
	return nil
}

func (f *MzML) addSpecToIndex(i int) error {
	if i != f.content.Run.SpectrumList.Spectrum[i].Index {
		return ErrInvalidScanIndex
	}
	f.index2id[i] = f.content.Run.SpectrumList.Spectrum[i].ID
	f.id2Index[f.content.Run.SpectrumList.Spectrum[i].ID] = i
	return nil
}

// ScanIndex converts a scan identifier (the string used in the mzML file)
// into an index that is used to access the scans
func (f *MzML) ScanIndex(scanID string) (int, error) {
	if index, ok := f.id2Index[scanID]; ok {
		return index, nil
	}
	return 0, ErrInvalidScanID
}

// ScanID converts a scan index (used to access the scan data) into a scan id
// (used in the mzML file)
func (f *MzML) ScanID(scanIndex int) (string, error) {
	if scanIndex >= 0 && scanIndex < f.NumSpecs() {
		return f.index2id[scanIndex], nil
	}
	return "", ErrInvalidScanIndex
}
