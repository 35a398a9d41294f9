package transform

import "sort"

// Type describes a kind as offered to users.
type Type struct {
	Kind     Kind            `json:"type"`
	Title    string          `json:"title"`
	SubTitle string          `json:"subTitle"`
	Config   Transformations `json:"config"`
	Icon     string          `json:"icon"`
}

var catalog = map[Kind]Type{
	KindRestore: {
		Kind:     KindRestore,
		Title:    "Restore Image",
		SubTitle: "Refine images by removing noise and imperfections",
		Config:   Transformations{Restore: Bool(true)},
		Icon:     "image.svg",
	},
	KindFill: {
		Kind:     KindFill,
		Title:    "Generative Fill",
		SubTitle: "Enhance an image's dimensions using AI outpainting",
		Config:   Transformations{FillBackground: Bool(true)},
		Icon:     "stars.svg",
	},
	KindRemove: {
		Kind:     KindRemove,
		Title:    "Object Remove",
		SubTitle: "Identify and eliminate objects from images",
		Config:   Transformations{Remove: &RemoveParams{RemoveShadow: Bool(true), Multiple: Bool(true)}},
		Icon:     "scan.svg",
	},
	KindRecolor: {
		Kind:     KindRecolor,
		Title:    "Object Recolor",
		SubTitle: "Identify and recolor objects from the image",
		Config:   Transformations{Recolor: &RecolorParams{Multiple: Bool(true)}},
		Icon:     "filter.svg",
	},
	KindRemoveBackground: {
		Kind:     KindRemoveBackground,
		Title:    "Background Remove",
		SubTitle: "Removes the background of the image using AI",
		Config:   Transformations{RemoveBackground: Bool(true)},
		Icon:     "camera.svg",
	},
}

// Lookup returns the catalog entry for kind with a private copy of its
// default configuration.
func Lookup(kind Kind) (Type, bool) {
	t, ok := catalog[kind]
	if !ok {
		return Type{}, false
	}
	t.Config = t.Config.Clone()
	return t, true
}

func Catalog() []Type {
	out := make([]Type, 0, len(Kinds))
	for _, k := range Kinds {
		t, _ := Lookup(k)
		out = append(out, t)
	}
	return out
}

type AspectRatio struct {
	Key    string `json:"key"`
	Label  string `json:"label"`
	Width  int    `json:"width"`
	Height int    `json:"height"`
}

var aspectRatios = map[string]AspectRatio{
	"1:1":  {Key: "1:1", Label: "Square (1:1)", Width: 1000, Height: 1000},
	"3:4":  {Key: "3:4", Label: "Standard Portrait (3:4)", Width: 1000, Height: 1334},
	"9:16": {Key: "9:16", Label: "Phone Portrait (9:16)", Width: 1000, Height: 1778},
}

func LookupAspectRatio(key string) (AspectRatio, bool) {
	a, ok := aspectRatios[key]
	return a, ok
}

func AspectRatios() []AspectRatio {
	out := make([]AspectRatio, 0, len(aspectRatios))
	for _, a := range aspectRatios {
		out = append(out, a)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Height < out[j].Height })
	return out
}
