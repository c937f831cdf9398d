package main

import (
	"bufio"
	"encoding/json"
	"log"
	"net"
	"os"
	"time"

	"github.com/letatnhien1912/Recommendation-System/internal/cluster"
)

// simnode es un worker de cálculo puro: recibe los vectores de tags por
// TCP, computa su shard de la matriz de similitud y devuelve las celdas.
// No toca Mongo ni Redis.
func main() {
	addr := os.Getenv("SIM_NODE_ADDR")
	if addr == "" {
		addr = ":9001"
	}

	nodeID := os.Getenv("NODE_ID")
	if nodeID == "" {
		nodeID = "?"
	}

	log.Printf("[SIM NODE %s] escuchando en %s", nodeID, addr)

	ln, err := net.Listen("tcp", addr)
	if err != nil {
		log.Fatal(err)
	}

	for {
		conn, err := ln.Accept()
		if err != nil {
			log.Println("accept error:", err)
			continue
		}
		go handleConn(nodeID, conn)
	}
}

func handleConn(nodeID string, conn net.Conn) {
	defer conn.Close()

	dec := json.NewDecoder(bufio.NewReader(conn))
	var task cluster.SimTask
	if err := dec.Decode(&task); err != nil {
		log.Printf("[SIM NODE %s] decode task error: %v", nodeID, err)
		return
	}

	log.Printf("[SIM NODE %s] tarea recibida: shard=%d/%d items=%d",
		nodeID, task.ShardID, task.Shards, len(task.Vectors))

	start := time.Now()
	cells := cluster.ComputeShardCells(&task)
	elapsed := time.Since(start)

	log.Printf("[SIM NODE %s] completado: shard=%d/%d celdas=%d tiempo=%s",
		nodeID, task.ShardID, task.Shards, len(cells), elapsed)

	resp := cluster.SimResponse{
		ShardID: task.ShardID,
		Cells:   cells,
	}

	if err := json.NewEncoder(conn).Encode(&resp); err != nil {
		log.Printf("[SIM NODE %s] encode resp error: %v", nodeID, err)
	}
}
