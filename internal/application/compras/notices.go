package compras

import "sync"

// Notices cola de avisos de una sesión. Se vacía en cada respuesta.
type Notices struct {
	mu   sync.Mutex
	msgs []string
}

// Notify encola un mensaje.
func (n *Notices) Notify(message string) {
	n.mu.Lock()
	n.msgs = append(n.msgs, message)
	n.mu.Unlock()
}

// Drain devuelve los mensajes pendientes y vacía la cola.
func (n *Notices) Drain() []string {
	n.mu.Lock()
	defer n.mu.Unlock()
	out := n.msgs
	n.msgs = nil
	if out == nil {
		return []string{}
	}
	return out
}

// Len mensajes pendientes.
func (n *Notices) Len() int {
	n.mu.Lock()
	defer n.mu.Unlock()
	return len(n.msgs)
}
