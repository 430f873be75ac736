package main

import "sync"

// Message is exchanged between the parties of the election.
type Message struct {
	From, To string
	Payload  []byte
}

// Network delivers messages between parties running in the same process.
type Network struct {
	listenChannels map[string]chan *Message
	mtx            sync.Mutex
}

func NewNetwork(parties []string, buffer int) *Network {
	lc := make(map[string]chan *Message, len(parties))
	for _, id := range parties {
		lc[id] = make(chan *Message, buffer)
	}
	return &Network{listenChannels: lc}
}

func (n *Network) Next(id string) <-chan *Message {
	n.mtx.Lock()
	defer n.mtx.Unlock()
	return n.listenChannels[id]
}

func (n *Network) Send(msg *Message) {
	n.mtx.Lock()
	c := n.listenChannels[msg.To]
	n.mtx.Unlock()
	c <- msg
}
