package audio

import (
	"path/filepath"
	"strings"

	"github.com/bogem/id3v2"
)

// SourceInfo holds descriptive metadata read from a source file.
//
// Every field is optional; files without tags produce an empty SourceInfo.
type SourceInfo struct {
	Title  string
	Artist string
	Album  string

	// Cover is the embedded picture (front cover preferred), nil if none.
	Cover     []byte
	CoverMIME string
}

// Empty reports whether no metadata was found.
func (i *SourceInfo) Empty() bool {
	return i == nil || (i.Title == "" && i.Artist == "" && i.Album == "" && len(i.Cover) == 0)
}

// Label returns "Artist - Title" using whatever fields are present.
func (i *SourceInfo) Label() string {
	if i == nil {
		return ""
	}
	switch {
	case i.Artist != "" && i.Title != "":
		return i.Artist + " - " + i.Title
	case i.Title != "":
		return i.Title
	default:
		return i.Artist
	}
}

// ReadSourceInfo reads ID3v2 metadata from an MP3 source.
//
// Other formats carry no ID3v2 tag and return an empty SourceInfo.
// Returns an error only if the file cannot be opened or the tag is malformed.
func ReadSourceInfo(path string) (*SourceInfo, error) {
	if strings.ToLower(filepath.Ext(path)) != ".mp3" {
		return &SourceInfo{}, nil
	}

	tag, err := id3v2.Open(path, id3v2.Options{Parse: true})
	if err != nil {
		return nil, err
	}
	defer tag.Close()

	info := &SourceInfo{
		Title:  tag.Title(),
		Artist: tag.Artist(),
		Album:  tag.Album(),
	}

	for _, f := range tag.GetFrames(tag.CommonID("Attached picture")) {
		pic, ok := f.(id3v2.PictureFrame)
		if !ok {
			continue
		}
		if info.Cover == nil || pic.PictureType == id3v2.PTFrontCover {
			info.Cover = pic.Picture
			info.CoverMIME = pic.MimeType
		}
	}

	return info, nil
}
