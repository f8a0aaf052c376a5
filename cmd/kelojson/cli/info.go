package cli

import (
	"encoding/json"
	"fmt"
	"math"
	"os"

	humanize "github.com/dustin/go-humanize"
	"github.com/spf13/cobra"

	"github.com/Sushant-Chavan/kelojson/dataset"
	"github.com/Sushant-Chavan/kelojson/proj"
	"github.com/Sushant-Chavan/kelojson/reader"
)

type fileInfo struct {
	Nodes     int64       `json:"nodes"`
	TagOnly   int64       `json:"tag_only"`
	Ways      int64       `json:"ways"`
	Relations int64       `json:"relations"`
	Warnings  int64       `json:"warnings"`
	Size      int64       `json:"size,omitempty"`
	BBox      *bbox       `json:"bbox,omitempty"`
	Origin    *[2]float64 `json:"origin,omitempty"`
}

type bbox struct {
	MinLong float64 `json:"minlong"`
	MinLat  float64 `json:"minlat"`
	MaxLong float64 `json:"maxlong"`
	MaxLat  float64 `json:"maxlat"`
}

func init() {
	RootCmd.AddCommand(infoCmd)
	infoCmd.Flags().BoolP("json", "j", false, "format information in JSON")
}

var infoCmd = &cobra.Command{
	Use:   "info <file>",
	Short: "Print information about a KeloJSON file",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		cmd.SilenceUsage = true
		flags := cmd.Flags()
		jsonfmt, _ := flags.GetBool("json")
		quiet, _ := flags.GetBool("quiet")

		in, err := OpenInput(args[0], quiet || jsonfmt)
		if err != nil {
			return err
		}
		defer in.Close()

		r := reader.New(proj.Mercator{})
		ds, err := r.Parse(in)
		if err != nil {
			return err
		}

		info := collectInfo(ds)
		info.Warnings = int64(len(r.Warnings()))
		if args[0] != "-" {
			if fi, err := os.Stat(args[0]); err == nil {
				info.Size = fi.Size()
			}
		}

		if jsonfmt {
			b, err := json.Marshal(info)
			if err != nil {
				return err
			}
			fmt.Println(string(b))
			return nil
		}
		renderInfo(info)
		return nil
	},
}

func collectInfo(ds *dataset.Dataset) *fileInfo {
	info := &fileInfo{
		Ways:      int64(len(ds.Ways())),
		Relations: int64(len(ds.Relations())),
	}
	box := bbox{MinLong: math.Inf(1), MinLat: math.Inf(1), MaxLong: math.Inf(-1), MaxLat: math.Inf(-1)}
	for _, n := range ds.Nodes() {
		if !dataset.HasPosition(n) {
			info.TagOnly++
			continue
		}
		info.Nodes++
		box.MinLong = math.Min(box.MinLong, n.Long)
		box.MinLat = math.Min(box.MinLat, n.Lat)
		box.MaxLong = math.Max(box.MaxLong, n.Long)
		box.MaxLat = math.Max(box.MaxLat, n.Lat)
		if n.Tags["name"] == "origin" {
			info.Origin = &[2]float64{n.Long, n.Lat}
		}
	}
	if info.Nodes > 0 {
		info.BBox = &box
	}
	return info
}

func renderInfo(info *fileInfo) {
	fmt.Printf("Nodes: %s\n", humanize.Comma(info.Nodes))
	fmt.Printf("TagOnly: %s\n", humanize.Comma(info.TagOnly))
	fmt.Printf("Ways: %s\n", humanize.Comma(info.Ways))
	fmt.Printf("Relations: %s\n", humanize.Comma(info.Relations))
	fmt.Printf("Warnings: %s\n", humanize.Comma(info.Warnings))
	if info.Size > 0 {
		fmt.Printf("Size: %s\n", humanize.Bytes(uint64(info.Size)))
	}
	if info.BBox != nil {
		b := info.BBox
		fmt.Printf("BoundingBox: [%v, %v, %v, %v]\n", b.MinLong, b.MinLat, b.MaxLong, b.MaxLat)
	}
	if info.Origin != nil {
		fmt.Printf("Origin: [%v, %v]\n", info.Origin[0], info.Origin[1])
	}
}
