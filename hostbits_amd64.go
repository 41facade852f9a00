package mywr

const hostBits = 64
