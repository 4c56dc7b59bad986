package main

import (
	"archive/tar"
	"flag"
	"fmt"
	"io"
	"log"
	"os"
	"path"
	"path/filepath"
	"runtime"
	"sort"
	"strings"
	"time"

	"github.com/DataDog/zstd"
	"github.com/natefinch/lumberjack"
	"golang.org/x/sys/unix"

	"github.com/warzone2100/chartsvg/store"
)

var (
	logsFilename     = "cleaner.log"
	storagePath      = flag.String("s", "./chartStorage/", "Chart storage root")
	maxAge           = flag.Duration("age", 30*24*time.Hour, "Charts last written longer ago than this are removed")
	archivePath      = flag.String("o", "", "Where to archive removed charts, nothing is archived when empty")
	minFreeMegabytes = flag.Uint64("minfree", 250, "Stop archiving when less than this many megabytes are free")
)

// 0 15 * * *

func weekOf(t time.Time) string {
	y, w := t.UTC().ISOWeek()
	return fmt.Sprintf("%04dw%02d", y, w)
}

func freeMegabytes(dir string) uint64 {
	var stat unix.Statfs_t
	if err := unix.Statfs(dir, &stat); err != nil {
		log.Printf("Statfs %s: %v", dir, err)
		return 0
	}
	return (stat.Bavail * uint64(stat.Bsize)) / 1024 / 1024
}

func main() {
	flag.Parse()
	log.SetOutput(io.MultiWriter(os.Stdout, &lumberjack.Logger{
		Filename:   "logs/" + logsFilename,
		MaxSize:    25,
		MaxAge:     31,
		MaxBackups: 0,
		LocalTime:  false,
		Compress:   true,
	}))
	log.SetFlags(log.LstdFlags | log.Lshortfile)
	log.Println("Cleanup operation starting up at", time.Now().String())

	st := store.New(*storagePath, "line", "area")
	expired, err := st.Expired(time.Now().Add(-*maxAge))
	must(err)
	log.Printf("%d charts older than %s", len(expired), *maxAge)

	weeks := map[string][]store.Entry{}
	for _, e := range expired {
		w := weekOf(e.ModTime)
		weeks[w] = append(weeks[w], e)
	}
	keys := make([]string, 0, len(weeks))
	for k := range weeks {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	removed := 0
	for wi, w := range keys {
		entries := weeks[w]
		if *archivePath != "" {
			free := freeMegabytes(*archivePath)
			if free < *minFreeMegabytes {
				log.Println("Not enough space!", free)
				break
			}
			log.Printf("%3d/%-3d packing week %s, %4d charts, %5d MiB free", wi+1, len(keys), w, len(entries), free)
			must(archiveWeek(w, entries))
		}
		for _, e := range entries {
			if err := os.Remove(e.Path); err != nil {
				log.Printf("Failed to remove %s: %v", e.Path, err)
				continue
			}
			removed++
		}
	}
	log.Printf("Removed %d charts", removed)
}

// archiveWeek packs the entries into a new tar.zst file in the archive dir.
func archiveWeek(week string, entries []store.Entry) error {
	must(os.MkdirAll(*archivePath, 0764))
	fname := fmt.Sprintf("%s-%d.tar.zst", week, time.Now().Unix())
	f, err := os.OpenFile(path.Join(*archivePath, fname), os.O_CREATE|os.O_EXCL|os.O_WRONLY, os.FileMode(0664))
	if err != nil {
		return err
	}
	zwr := zstd.NewWriterLevel(f, zstd.BestCompression)
	twr := tar.NewWriter(zwr)
	root := filepath.ToSlash(filepath.Clean(*storagePath)) + "/"
	for _, e := range entries {
		fi, err := os.Stat(e.Path)
		if err != nil {
			return err
		}
		header, err := tar.FileInfoHeader(fi, "")
		if err != nil {
			return err
		}
		header.Name = strings.TrimPrefix(filepath.ToSlash(e.Path), root)
		if err := twr.WriteHeader(header); err != nil {
			return err
		}
		data, err := os.Open(e.Path)
		if err != nil {
			return err
		}
		_, err = io.Copy(twr, data)
		data.Close()
		if err != nil {
			return err
		}
	}
	must(twr.Close())
	must(zwr.Close())
	must(f.Sync())
	return f.Close()
}

func must(err error) {
	if err != nil {
		pc, filename, line, _ := runtime.Caller(1)
		log.Fatalf("Error: %s[%s:%d] %v", runtime.FuncForPC(pc).Name(), path.Base(filename), line, err)
	}
}
